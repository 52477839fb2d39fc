package repository

import (
    "context"
    "database/sql"
    "fmt"
)

// catalogDescriptor pins down every identifier a catalog query may use.
// Table, id and display column names only ever come from this registry;
// the caller-supplied key selects a descriptor and nothing else, so no
// request string can reach an identifier position.  ParentFK, when set,
// names the optional foreign key required on creation (equipo belongs to a
// specialty, falla_reportada to an equipment).
type catalogDescriptor struct {
    Table    string
    IDCol    string
    NameCol  string
    ParentFK string
}

// catalogs is the closed allow-list of reference tables exposed through the
// generic catalog endpoints.  The odd identity column of accesorios
// (id_equipo) is a legacy quirk the frontend depends on.
var catalogs = map[string]catalogDescriptor{
    "empresas":         {Table: "empresas", IDCol: "id", NameCol: "empresa"},
    "especialidad":     {Table: "especialidad", IDCol: "id", NameCol: "especialidad"},
    "equipo":           {Table: "equipo", IDCol: "id", NameCol: "equipo", ParentFK: "id_especialidad"},
    "falla_reportada":  {Table: "falla_reportada", IDCol: "id", NameCol: "falla", ParentFK: "id_equipo"},
    "cat_elementos":    {Table: "cat_elementos", IDCol: "id", NameCol: "elemento"},
    "accesorios":       {Table: "accesorios", IDCol: "id_equipo", NameCol: "accesorios"},
    "detalle_revision": {Table: "detalle_revision", IDCol: "id", NameCol: "descripción"},
    "solucion":         {Table: "solucion", IDCol: "id", NameCol: "solución"},
}

// descriptor resolves a catalog key against the registry.  Every public
// method goes through here before touching query text.
func descriptor(key string) (catalogDescriptor, error) {
    d, ok := catalogs[key]
    if !ok {
        return catalogDescriptor{}, ErrInvalidCatalog
    }
    return d, nil
}

// CatalogItem is one row of a reference table projected to the shape the
// frontend consumes: the display column is always exposed as "nombre".
type CatalogItem struct {
    ID     uint64 `json:"id"`
    Nombre string `json:"nombre"`
    Activo *bool  `json:"activo,omitempty"`
}

// CatalogRepo runs the generic CRUD over the allow-listed reference tables.
type CatalogRepo struct{ DB *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

// List returns (id, nombre) of every row ordered by id ascending.  This is
// the legacy select-box endpoint and intentionally omits activo.
func (r *CatalogRepo) List(ctx context.Context, key string) ([]CatalogItem, error) {
    d, err := descriptor(key)
    if err != nil {
        return nil, err
    }
    q := fmt.Sprintf("SELECT `%s` AS id, `%s` AS nombre FROM `%s` ORDER BY `%s` ASC",
        d.IDCol, d.NameCol, d.Table, d.IDCol)
    return r.scanItems(ctx, q, false)
}

// ListAll returns (id, nombre, activo) ordered by id descending.  The admin
// screen lists newest entries first; the ordering difference with List is
// deliberate and matched to each consumer.
func (r *CatalogRepo) ListAll(ctx context.Context, key string) ([]CatalogItem, error) {
    d, err := descriptor(key)
    if err != nil {
        return nil, err
    }
    q := fmt.Sprintf("SELECT `%s` AS id, `%s` AS nombre, activo FROM `%s` ORDER BY `%s` DESC",
        d.IDCol, d.NameCol, d.Table, d.IDCol)
    return r.scanItems(ctx, q, true)
}

func (r *CatalogRepo) scanItems(ctx context.Context, q string, withActivo bool) ([]CatalogItem, error) {
    rows, err := r.DB.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []CatalogItem{}
    for rows.Next() {
        var it CatalogItem
        if withActivo {
            var activo bool
            if err := rows.Scan(&it.ID, &it.Nombre, &activo); err != nil {
                return nil, err
            }
            it.Activo = &activo
        } else if err := rows.Scan(&it.ID, &it.Nombre); err != nil {
            return nil, err
        }
        out = append(out, it)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Create inserts a new catalog row.  The parent FK is written only when the
// descriptor declares one and the caller provided a value; otherwise the
// row is inserted with just its display name.  Returns the new id.
func (r *CatalogRepo) Create(ctx context.Context, key, nombre string, parentID *uint64) (uint64, error) {
    d, err := descriptor(key)
    if err != nil {
        return 0, err
    }
    var (
        q    string
        args []any
    )
    if d.ParentFK != "" && parentID != nil {
        q = fmt.Sprintf("INSERT INTO `%s` (`%s`, `%s`, activo) VALUES (?, ?, TRUE)", d.Table, d.NameCol, d.ParentFK)
        args = []any{nombre, *parentID}
    } else {
        q = fmt.Sprintf("INSERT INTO `%s` (`%s`, activo) VALUES (?, TRUE)", d.Table, d.NameCol)
        args = []any{nombre}
    }
    res, err := r.DB.ExecContext(ctx, q, args...)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// UpdateName rewrites only the display column.  sql.ErrNoRows when the id
// does not exist.
func (r *CatalogRepo) UpdateName(ctx context.Context, key string, id uint64, nombre string) error {
    d, err := descriptor(key)
    if err != nil {
        return err
    }
    q := fmt.Sprintf("UPDATE `%s` SET `%s` = ? WHERE `%s` = ?", d.Table, d.NameCol, d.IDCol)
    res, err := r.DB.ExecContext(ctx, q, nombre, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // Distinguish "row missing" from "name rewritten to itself": MySQL
        // reports zero affected rows in both cases.
        var exists bool
        qe := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM `%s` WHERE `%s` = ?)", d.Table, d.IDCol)
        if err := r.DB.QueryRowContext(ctx, qe, id).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return sql.ErrNoRows
        }
    }
    return nil
}

// ToggleActive flips the activo flag and returns the new value.  Catalog
// rows are never hard-deleted; deactivation is the only removal path.  The
// flip and the read-back share one transaction so the returned value is
// this toggle's result even under concurrent flips.
func (r *CatalogRepo) ToggleActive(ctx context.Context, key string, id uint64) (nuevo bool, err error) {
    d, err := descriptor(key)
    if err != nil {
        return false, err
    }

    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return false, err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        }
    }()

    q := fmt.Sprintf("UPDATE `%s` SET activo = NOT activo WHERE `%s` = ?", d.Table, d.IDCol)
    var res sql.Result
    res, err = tx.ExecContext(ctx, q, id)
    if err != nil {
        return false, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        err = sql.ErrNoRows
        return false, err
    }

    qs := fmt.Sprintf("SELECT activo FROM `%s` WHERE `%s` = ?", d.Table, d.IDCol)
    if err = tx.QueryRowContext(ctx, qs, id).Scan(&nuevo); err != nil {
        return false, err
    }

    if err = tx.Commit(); err != nil {
        return false, err
    }
    return nuevo, nil
}

// CatalogKeys lists the allow-listed keys, used by the 404 payload of the
// catalog endpoints so callers can discover valid values.
func CatalogKeys() []string {
    keys := make([]string, 0, len(catalogs))
    for k := range catalogs {
        keys = append(keys, k)
    }
    return keys
}
