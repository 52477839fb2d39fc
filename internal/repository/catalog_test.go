package repository

import (
    "context"
    "database/sql"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return db, mock
}

// An unknown key must be rejected before any SQL is built or sent; the mock
// registers no expectations, so a stray query would fail the test.
func TestCatalogRejectsUnknownTable(t *testing.T) {
    db, mock := newMock(t)
    repo := NewCatalogRepo(db)
    ctx := context.Background()

    for _, key := range []string{"tickets", "administradores", "empresas; DROP TABLE tickets", "empresas`", ""} {
        _, err := repo.List(ctx, key)
        assert.ErrorIs(t, err, ErrInvalidCatalog, "List(%q)", key)

        _, err = repo.ListAll(ctx, key)
        assert.ErrorIs(t, err, ErrInvalidCatalog, "ListAll(%q)", key)

        _, err = repo.Create(ctx, key, "x", nil)
        assert.ErrorIs(t, err, ErrInvalidCatalog, "Create(%q)", key)

        err = repo.UpdateName(ctx, key, 1, "x")
        assert.ErrorIs(t, err, ErrInvalidCatalog, "UpdateName(%q)", key)

        _, err = repo.ToggleActive(ctx, key, 1)
        assert.ErrorIs(t, err, ErrInvalidCatalog, "ToggleActive(%q)", key)
    }
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogList(t *testing.T) {
    db, mock := newMock(t)
    repo := NewCatalogRepo(db)

    mock.ExpectQuery("SELECT `id` AS id, `empresa` AS nombre FROM `empresas` ORDER BY `id` ASC").
        WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}).
            AddRow(1, "Transportes del Norte").
            AddRow(2, "Ruta 100"))

    items, err := repo.List(context.Background(), "empresas")
    require.NoError(t, err)
    require.Len(t, items, 2)
    assert.Equal(t, uint64(1), items[0].ID)
    assert.Equal(t, "Transportes del Norte", items[0].Nombre)
    assert.Nil(t, items[0].Activo) // select-box shape omits activo
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogListAllAccessoriesIdentity(t *testing.T) {
    db, mock := newMock(t)
    repo := NewCatalogRepo(db)

    // accesorios keys on id_equipo, a quirk the descriptor must preserve.
    mock.ExpectQuery("SELECT `id_equipo` AS id, `accesorios` AS nombre, activo FROM `accesorios` ORDER BY `id_equipo` DESC").
        WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "activo"}).
            AddRow(7, "Extintor", true))

    items, err := repo.ListAll(context.Background(), "accesorios")
    require.NoError(t, err)
    require.Len(t, items, 1)
    require.NotNil(t, items[0].Activo)
    assert.True(t, *items[0].Activo)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogCreateWithParent(t *testing.T) {
    db, mock := newMock(t)
    repo := NewCatalogRepo(db)
    parent := uint64(3)

    mock.ExpectExec("INSERT INTO `equipo` (`equipo`, `id_especialidad`, activo) VALUES (?, ?, TRUE)").
        WithArgs("Motor", parent).
        WillReturnResult(sqlmock.NewResult(11, 1))

    id, err := repo.Create(context.Background(), "equipo", "Motor", &parent)
    require.NoError(t, err)
    assert.Equal(t, uint64(11), id)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogCreateIgnoresParentWhenNotDeclared(t *testing.T) {
    db, mock := newMock(t)
    repo := NewCatalogRepo(db)
    parent := uint64(9)

    // empresas declares no parent FK, so the provided id must not be written.
    mock.ExpectExec("INSERT INTO `empresas` (`empresa`, activo) VALUES (?, TRUE)").
        WithArgs("Nueva Línea").
        WillReturnResult(sqlmock.NewResult(4, 1))

    id, err := repo.Create(context.Background(), "empresas", "Nueva Línea", &parent)
    require.NoError(t, err)
    assert.Equal(t, uint64(4), id)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogUpdateNameNotFound(t *testing.T) {
    db, mock := newMock(t)
    repo := NewCatalogRepo(db)

    mock.ExpectExec("UPDATE `solucion` SET `solución` = ? WHERE `id` = ?").
        WithArgs("Cambio de balata", uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT EXISTS(SELECT 1 FROM `solucion` WHERE `id` = ?)").
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

    err := repo.UpdateName(context.Background(), "solucion", 99, "Cambio de balata")
    assert.ErrorIs(t, err, sql.ErrNoRows)
    assert.NoError(t, mock.ExpectationsWereMet())
}

// Rewriting a name to its current value affects zero rows even though the
// row exists; that must not look like a missing row.
func TestCatalogUpdateNameSameValue(t *testing.T) {
    db, mock := newMock(t)
    repo := NewCatalogRepo(db)

    mock.ExpectExec("UPDATE `especialidad` SET `especialidad` = ? WHERE `id` = ?").
        WithArgs("Frenos", uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT EXISTS(SELECT 1 FROM `especialidad` WHERE `id` = ?)").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

    assert.NoError(t, repo.UpdateName(context.Background(), "especialidad", 7, "Frenos"))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogToggleActiveReturnsNewValue(t *testing.T) {
    db, mock := newMock(t)
    repo := NewCatalogRepo(db)

    mock.ExpectBegin()
    mock.ExpectExec("UPDATE `especialidad` SET activo = NOT activo WHERE `id` = ?").
        WithArgs(uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery("SELECT activo FROM `especialidad` WHERE `id` = ?").
        WithArgs(uint64(5)).
        WillReturnRows(sqlmock.NewRows([]string{"activo"}).AddRow(false))
    mock.ExpectCommit()

    nuevo, err := repo.ToggleActive(context.Background(), "especialidad", 5)
    require.NoError(t, err)
    assert.False(t, nuevo)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogToggleActiveNotFound(t *testing.T) {
    db, mock := newMock(t)
    repo := NewCatalogRepo(db)

    mock.ExpectBegin()
    mock.ExpectExec("UPDATE `especialidad` SET activo = NOT activo WHERE `id` = ?").
        WithArgs(uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    _, err := repo.ToggleActive(context.Background(), "especialidad", 99)
    assert.ErrorIs(t, err, sql.ErrNoRows)
    assert.NoError(t, mock.ExpectationsWereMet())
}
