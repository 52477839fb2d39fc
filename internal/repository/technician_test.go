package repository

import (
    "context"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestTechnicianToggleActive(t *testing.T) {
    db, mock := newRegexpMock(t)
    repo := NewTechnicianRepo(db)

    mock.ExpectBegin()
    mock.ExpectExec(`UPDATE tecnicos SET activo = NOT activo WHERE id = \?`).
        WithArgs(uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(`SELECT activo FROM tecnicos WHERE id = \?`).
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"activo"}).AddRow(true))
    mock.ExpectCommit()

    nuevo, err := repo.ToggleActive(context.Background(), 3)
    require.NoError(t, err)
    assert.True(t, nuevo)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTechnicianToggleActiveNotFound(t *testing.T) {
    db, mock := newRegexpMock(t)
    repo := NewTechnicianRepo(db)

    mock.ExpectBegin()
    mock.ExpectExec(`UPDATE tecnicos SET activo = NOT activo WHERE id = \?`).
        WithArgs(uint64(40)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    _, err := repo.ToggleActive(context.Background(), 40)
    assert.ErrorIs(t, err, ErrTecnicoNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}
