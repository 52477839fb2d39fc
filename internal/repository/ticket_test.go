package repository

import (
    "context"
    "database/sql"
    "errors"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// newRegexpMock matches expectations as regular expressions, which keeps the
// multi-line INSERT statements readable in the tests below.
func newRegexpMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return db, mock
}

func expectClienteExists(mock sqlmock.Sqlmock, id uint64, exists bool) {
    mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM cliente WHERE id = \?\)`).
        WithArgs(id).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func expectTicketCount(mock sqlmock.Sqlmock, n int64) {
    mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets`).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
}

func TestCreateExternalWithFicha(t *testing.T) {
    db, mock := newRegexpMock(t)
    repo := NewTicketRepo(db)
    tecnico := uint64(7)

    mock.ExpectBegin()
    expectClienteExists(mock, 3, true)
    expectTicketCount(mock, 5)
    mock.ExpectExec(`INSERT INTO tickets`).
        WithArgs(uint64(3), "AUT-104", uint64(12), "INT-0006", nil).
        WillReturnResult(sqlmock.NewResult(42, 1))
    mock.ExpectExec(`INSERT INTO fichas_tecnicas`).
        WithArgs(int64(42), tecnico).
        WillReturnResult(sqlmock.NewResult(1, 1))
    mock.ExpectCommit()

    codigo, err := repo.CreateExternal(context.Background(), CreateExternalParams{
        ClienteID:  3,
        NumAutobus: "AUT-104",
        FallaID:    12,
        TecnicoID:  &tecnico,
    })
    require.NoError(t, err)
    assert.Equal(t, "INT-0006", codigo)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateExternalUnknownCliente(t *testing.T) {
    db, mock := newRegexpMock(t)
    repo := NewTicketRepo(db)

    mock.ExpectBegin()
    expectClienteExists(mock, 99, false)
    mock.ExpectRollback()

    _, err := repo.CreateExternal(context.Background(), CreateExternalParams{
        ClienteID: 99, NumAutobus: "AUT-1", FallaID: 1,
    })
    assert.ErrorIs(t, err, ErrClienteNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

// A ficha insert failure must roll the ticket row back with it.
func TestCreateExternalRollsBackOnFichaFailure(t *testing.T) {
    db, mock := newRegexpMock(t)
    repo := NewTicketRepo(db)
    tecnico := uint64(4)
    boom := errors.New("connection lost")

    mock.ExpectBegin()
    expectClienteExists(mock, 1, true)
    expectTicketCount(mock, 0)
    mock.ExpectExec(`INSERT INTO tickets`).
        WithArgs(uint64(1), "AUT-2", uint64(8), "INT-0001", nil).
        WillReturnResult(sqlmock.NewResult(1, 1))
    mock.ExpectExec(`INSERT INTO fichas_tecnicas`).
        WithArgs(int64(1), tecnico).
        WillReturnError(boom)
    mock.ExpectRollback()

    _, err := repo.CreateExternal(context.Background(), CreateExternalParams{
        ClienteID: 1, NumAutobus: "AUT-2", FallaID: 8, TecnicoID: &tecnico,
    })
    assert.ErrorIs(t, err, boom)
    assert.NoError(t, mock.ExpectationsWereMet())
}

// Two writers racing the count produce a duplicate folio; the loser retries
// with a fresh count and succeeds.
func TestCreateExternalRetriesOnDuplicateFolio(t *testing.T) {
    db, mock := newRegexpMock(t)
    repo := NewTicketRepo(db)
    dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'INT-0006' for key 'codigo'"}

    mock.ExpectBegin()
    expectClienteExists(mock, 3, true)
    expectTicketCount(mock, 5)
    mock.ExpectExec(`INSERT INTO tickets`).
        WithArgs(uint64(3), "AUT-104", uint64(12), "INT-0006", nil).
        WillReturnError(dup)
    mock.ExpectRollback()

    mock.ExpectBegin()
    expectClienteExists(mock, 3, true)
    expectTicketCount(mock, 6)
    mock.ExpectExec(`INSERT INTO tickets`).
        WithArgs(uint64(3), "AUT-104", uint64(12), "INT-0007", nil).
        WillReturnResult(sqlmock.NewResult(43, 1))
    mock.ExpectCommit()

    codigo, err := repo.CreateExternal(context.Background(), CreateExternalParams{
        ClienteID: 3, NumAutobus: "AUT-104", FallaID: 12,
    })
    require.NoError(t, err)
    assert.Equal(t, "INT-0007", codigo)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateExternalGivesUpAfterRetries(t *testing.T) {
    db, mock := newRegexpMock(t)
    repo := NewTicketRepo(db)
    dup := &mysql.MySQLError{Number: 1062}

    for i := 0; i < codeRetries; i++ {
        mock.ExpectBegin()
        expectClienteExists(mock, 3, true)
        expectTicketCount(mock, 5)
        mock.ExpectExec(`INSERT INTO tickets`).WillReturnError(dup)
        mock.ExpectRollback()
    }

    _, err := repo.CreateExternal(context.Background(), CreateExternalParams{
        ClienteID: 3, NumAutobus: "AUT-104", FallaID: 12,
    })
    assert.ErrorIs(t, err, ErrCodeConflict)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusDistinguishesMissingFromNoop(t *testing.T) {
    db, mock := newRegexpMock(t)
    repo := NewTicketRepo(db)
    ctx := context.Background()

    // Zero affected rows and the id exists: same status written twice, fine.
    mock.ExpectExec(`UPDATE tickets SET estado = \? WHERE id = \?`).
        WithArgs("ABIERTO", uint64(1)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM tickets WHERE id = \?\)`).
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
    assert.NoError(t, repo.UpdateStatus(ctx, 1, "ABIERTO"))

    // Zero affected rows and no such id: not found.
    mock.ExpectExec(`UPDATE tickets SET estado = \? WHERE id = \?`).
        WithArgs("RESUELTO", uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM tickets WHERE id = \?\)`).
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
    assert.ErrorIs(t, repo.UpdateStatus(ctx, 99, "RESUELTO"), ErrTicketNotFound)

    assert.NoError(t, mock.ExpectationsWereMet())
}
