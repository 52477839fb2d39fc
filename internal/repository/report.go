package repository

import (
    "context"
    "database/sql"
)

// ReportRepo runs the read-only aggregation queries behind the dashboard
// and export endpoints.  No transaction demarcation: each method is one or
// more plain SELECTs whose rows are projected straight into the legacy
// payload shapes (Spanish keys, dates preformatted as %d/%m/%Y %H:%i).
type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// DashboardTicket is one row of the dashboard ticket table.
type DashboardTicket struct {
    Codigo        string  `json:"codigo"`
    Fecha         string  `json:"fecha"`
    Empresa       *string `json:"empresa"`
    Estado        string  `json:"estado"`
    TecnicoNombre *string `json:"tecnico_nombre"`
}

// DashboardStats carries the KPI counters shown above the ticket table.
type DashboardStats struct {
    Total         int64 `json:"total"`
    Abiertas      int64 `json:"abiertas"`
    Atencion      int64 `json:"atencion"`
    Espera        int64 `json:"espera"`
    Resueltos     int64 `json:"resueltos"`
    TotalTecnicos int64 `json:"total_tecnicos"`
    TotalClientes int64 `json:"total_clientes"`
    TotalEmpresas int64 `json:"total_empresas"`
}

// Dashboard returns the denormalized ticket list plus the KPI counters.
func (r *ReportRepo) Dashboard(ctx context.Context) ([]DashboardTicket, DashboardStats, error) {
    const qTickets = `
        SELECT t.codigo,
               DATE_FORMAT(t.fecha_creacion, '%d/%m/%Y %H:%i') AS fecha,
               e.empresa,
               t.estado,
               CONCAT(tec.nombre, ' ', tec.primer_apellido) AS tecnico_nombre
        FROM tickets t
        LEFT JOIN cliente c ON t.id_clientes = c.id
        LEFT JOIN empresas e ON c.id_empresa = e.id
        LEFT JOIN fichas_tecnicas f ON t.id = f.id_ticket
        LEFT JOIN tecnicos tec ON f.id_tecnico = tec.id
        ORDER BY t.fecha_creacion DESC`

    rows, err := r.DB.QueryContext(ctx, qTickets)
    if err != nil {
        return nil, DashboardStats{}, err
    }
    defer rows.Close()

    tickets := []DashboardTicket{}
    for rows.Next() {
        var t DashboardTicket
        if err := rows.Scan(&t.Codigo, &t.Fecha, &t.Empresa, &t.Estado, &t.TecnicoNombre); err != nil {
            return nil, DashboardStats{}, err
        }
        tickets = append(tickets, t)
    }
    if err := rows.Err(); err != nil {
        return nil, DashboardStats{}, err
    }

    const qStats = `
        SELECT
            (SELECT COUNT(*) FROM tickets) AS total,
            (SELECT COUNT(*) FROM tickets WHERE estado = 'ABIERTO') AS abiertas,
            (SELECT COUNT(*) FROM tickets WHERE estado = 'EN ATENCIÓN') AS atencion,
            (SELECT COUNT(*) FROM tickets WHERE estado = 'ESPERA_REFACCION') AS espera,
            (SELECT COUNT(*) FROM tickets WHERE estado = 'RESUELTO') AS resueltos,
            (SELECT COUNT(*) FROM tecnicos) AS total_tecnicos,
            (SELECT COUNT(*) FROM cliente) AS total_clientes,
            (SELECT COUNT(*) FROM empresas) AS total_empresas`

    var s DashboardStats
    if err := r.DB.QueryRowContext(ctx, qStats).Scan(
        &s.Total, &s.Abiertas, &s.Atencion, &s.Espera, &s.Resueltos,
        &s.TotalTecnicos, &s.TotalClientes, &s.TotalEmpresas); err != nil {
        return nil, DashboardStats{}, err
    }
    return tickets, s, nil
}

// TecnicoDetallado is a technician joined with their specialty name.
type TecnicoDetallado struct {
    ID                  uint64  `json:"id"`
    IDTelegram          *string `json:"id_telegram"`
    Nombre              string  `json:"nombre"`
    PrimerApellido      string  `json:"primer_apellido"`
    NombreEspecialidad  *string `json:"nombre_especialidad"`
    Activo              bool    `json:"activo"`
}

// TecnicosDetallados lists technicians with their specialty, ordered by name.
func (r *ReportRepo) TecnicosDetallados(ctx context.Context) ([]TecnicoDetallado, error) {
    const q = `
        SELECT t.id, t.id_telegram, t.nombre, t.primer_apellido,
               e.especialidad AS nombre_especialidad, t.activo
        FROM tecnicos t
        LEFT JOIN especialidad e ON t.id_especialidad = e.id
        ORDER BY t.nombre ASC`
    rows, err := r.DB.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []TecnicoDetallado{}
    for rows.Next() {
        var t TecnicoDetallado
        if err := rows.Scan(&t.ID, &t.IDTelegram, &t.Nombre, &t.PrimerApellido,
            &t.NombreEspecialidad, &t.Activo); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// ClienteDetallado is a client joined with their company name.
type ClienteDetallado struct {
    ID             uint64  `json:"id"`
    IDTelegram     *string `json:"id_telegram"`
    Nombre         string  `json:"nombre"`
    PrimerApellido string  `json:"primer_apellido"`
    EmpresaID      *uint64 `json:"id_empresa"`
    NombreEmpresa  *string `json:"nombre_empresa"`
    Activo         bool    `json:"activo"`
}

// ClientesDetallados lists clients with their company name.
func (r *ReportRepo) ClientesDetallados(ctx context.Context) ([]ClienteDetallado, error) {
    const q = `
        SELECT c.id, c.id_telegram, c.nombre, c.primer_apellido, c.id_empresa,
               e.empresa AS nombre_empresa, c.activo
        FROM cliente c
        LEFT JOIN empresas e ON c.id_empresa = e.id`
    rows, err := r.DB.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []ClienteDetallado{}
    for rows.Next() {
        var c ClienteDetallado
        if err := rows.Scan(&c.ID, &c.IDTelegram, &c.Nombre, &c.PrimerApellido,
            &c.EmpresaID, &c.NombreEmpresa, &c.Activo); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// FichaCompleta is one technical sheet denormalized across the whole
// diagnosis chain.  TicketCod is taken from whichever ticket family the
// ficha belongs to.
type FichaCompleta struct {
    FichaID         uint64  `json:"ficha_id"`
    TicketCod       *string `json:"ticket_cod"`
    Estado          *string `json:"estado"`
    Tecnico         *string `json:"tecnico"`
    Elemento        *string `json:"elemento"`
    Accesorio       *string `json:"accesorio"`
    DetalleRevision *string `json:"detalle_revision"`
    Solucion        *string `json:"solución"`
    FechaInicio     string  `json:"fecha_inicio"`
    FechaCierre     *string `json:"fecha_cierre"`
    Observacion     *string `json:"observacion"`
    EvidenciaURL    *string `json:"evidencia_url"`
    Ubicacion       *string `json:"ubicacion_atencion"`
}

// FichasCompletas joins every ficha with both ticket families, the
// technician and the full diagnosis chain.  The location point is read back
// as WKT through ST_AsText.
func (r *ReportRepo) FichasCompletas(ctx context.Context) ([]FichaCompleta, error) {
    const q = `
        SELECT f.id AS ficha_id,
               COALESCE(t.codigo, ti.codigo) AS ticket_cod,
               COALESCE(t.estado, ti.estado) AS estado,
               CONCAT(tec.nombre, ' ', tec.primer_apellido) AS tecnico,
               elem.elemento,
               acc.accesorios AS accesorio,
               rev.` + "`descripción`" + ` AS detalle_revision,
               sol.` + "`solución`" + `,
               DATE_FORMAT(f.fecha_inicio, '%d/%m/%Y %H:%i') AS fecha_inicio,
               DATE_FORMAT(f.fecha_cierre, '%d/%m/%Y %H:%i') AS fecha_cierre,
               f.observacion, f.evidencia_url,
               ST_AsText(f.ubicacion_atencion) AS ubicacion_atencion
        FROM fichas_tecnicas f
        LEFT JOIN tickets t ON f.id_ticket = t.id
        LEFT JOIN tickets_internos ti ON f.id_ticket_interno = ti.id
        LEFT JOIN tecnicos tec ON f.id_tecnico = tec.id
        LEFT JOIN cat_elementos elem ON f.id_cat_elementos = elem.id
        LEFT JOIN accesorios acc ON f.id_accesorios = acc.id_equipo
        LEFT JOIN detalle_revision rev ON f.id_detalle_revision = rev.id
        LEFT JOIN solucion sol ON f.id_solucion = sol.id
        ORDER BY f.fecha_inicio DESC`
    rows, err := r.DB.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []FichaCompleta{}
    for rows.Next() {
        var f FichaCompleta
        if err := rows.Scan(&f.FichaID, &f.TicketCod, &f.Estado, &f.Tecnico, &f.Elemento,
            &f.Accesorio, &f.DetalleRevision, &f.Solucion, &f.FechaInicio, &f.FechaCierre,
            &f.Observacion, &f.EvidenciaURL, &f.Ubicacion); err != nil {
            return nil, err
        }
        out = append(out, f)
    }
    return out, rows.Err()
}

// TicketExportRow is one row of the general report and the PDF export.
type TicketExportRow struct {
    Codigo     string  `json:"codigo"`
    Fecha      string  `json:"fecha"`
    Empresa    *string `json:"empresa"`
    NumAutobus string  `json:"num_autobus"`
    Falla      *string `json:"falla"`
    Estado     string  `json:"estado"`
    Solicitante *string `json:"solicitante,omitempty"`
}

// ExtraReportRow is one extra report joined with its ficha's ticket folio.
type ExtraReportRow struct {
    Codigo      string  `json:"codigo"`
    TicketCod   *string `json:"ticket_cod"`
    Elemento    *string `json:"elemento"`
    Solucion    *string `json:"solución"`
    Observacion *string `json:"observacion"`
    Tipo        string  `json:"tipo"`
}

// ReporteGeneral is the composite payload of reporte-general-completo.
type ReporteGeneral struct {
    Tickets         []TicketExportRow `json:"tickets"`
    TicketsInternos []TicketExportRow `json:"tickets_internos"`
    Fichas          []FichaCompleta   `json:"fichas"`
    ReportesExtra   []ExtraReportRow  `json:"reportes_extra"`
    Stats           DashboardStats    `json:"stats"`
}

// ReporteGeneralCompleto fans out into five sequential queries and
// assembles the composite export payload.  Purely declarative: joins,
// display-name concatenation and date formatting only.
func (r *ReportRepo) ReporteGeneralCompleto(ctx context.Context) (*ReporteGeneral, error) {
    out := &ReporteGeneral{}

    var err error
    if out.Tickets, err = r.ticketsExternos(ctx); err != nil {
        return nil, err
    }
    if out.TicketsInternos, err = r.ticketsInternos(ctx); err != nil {
        return nil, err
    }
    if out.Fichas, err = r.FichasCompletas(ctx); err != nil {
        return nil, err
    }
    if out.ReportesExtra, err = r.reportesExtra(ctx); err != nil {
        return nil, err
    }
    if _, out.Stats, err = r.Dashboard(ctx); err != nil {
        return nil, err
    }
    return out, nil
}

func (r *ReportRepo) ticketsExternos(ctx context.Context) ([]TicketExportRow, error) {
    const q = `
        SELECT t.codigo,
               DATE_FORMAT(t.fecha_creacion, '%d/%m/%Y %H:%i') AS fecha,
               e.empresa, t.num_autobus, fa.falla, t.estado
        FROM tickets t
        LEFT JOIN cliente c ON t.id_clientes = c.id
        LEFT JOIN empresas e ON c.id_empresa = e.id
        LEFT JOIN falla_reportada fa ON t.id_falla_reportada = fa.id
        ORDER BY t.fecha_creacion DESC`
    return r.scanExportRows(ctx, q, false)
}

func (r *ReportRepo) ticketsInternos(ctx context.Context) ([]TicketExportRow, error) {
    const q = `
        SELECT ti.codigo,
               DATE_FORMAT(ti.fecha_creacion, '%d/%m/%Y %H:%i') AS fecha,
               e.empresa, ti.num_autobus, fa.falla, ti.estado,
               CONCAT(a.nombre, ' ', a.apellidos) AS solicitante
        FROM tickets_internos ti
        LEFT JOIN empresas e ON ti.id_empresa = e.id
        LEFT JOIN falla_reportada fa ON ti.id_falla_reportada = fa.id
        LEFT JOIN administradores a ON ti.id_solicitante = a.id
        ORDER BY ti.fecha_creacion DESC`
    return r.scanExportRows(ctx, q, true)
}

func (r *ReportRepo) scanExportRows(ctx context.Context, q string, withSolicitante bool) ([]TicketExportRow, error) {
    rows, err := r.DB.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []TicketExportRow{}
    for rows.Next() {
        var t TicketExportRow
        if withSolicitante {
            err = rows.Scan(&t.Codigo, &t.Fecha, &t.Empresa, &t.NumAutobus, &t.Falla, &t.Estado, &t.Solicitante)
        } else {
            err = rows.Scan(&t.Codigo, &t.Fecha, &t.Empresa, &t.NumAutobus, &t.Falla, &t.Estado)
        }
        if err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

func (r *ReportRepo) reportesExtra(ctx context.Context) ([]ExtraReportRow, error) {
    const q = `
        SELECT re.codigo,
               COALESCE(t.codigo, ti.codigo) AS ticket_cod,
               elem.elemento,
               sol.` + "`solución`" + `,
               re.observacion, re.tipo
        FROM reportes_extra re
        LEFT JOIN fichas_tecnicas f ON re.id_ficha = f.id
        LEFT JOIN tickets t ON f.id_ticket = t.id
        LEFT JOIN tickets_internos ti ON f.id_ticket_interno = ti.id
        LEFT JOIN cat_elementos elem ON re.id_cat_elementos = elem.id
        LEFT JOIN solucion sol ON re.id_solucion = sol.id
        ORDER BY re.id DESC`
    rows, err := r.DB.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []ExtraReportRow{}
    for rows.Next() {
        var e ExtraReportRow
        if err := rows.Scan(&e.Codigo, &e.TicketCod, &e.Elemento, &e.Solucion,
            &e.Observacion, &e.Tipo); err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    return out, rows.Err()
}
