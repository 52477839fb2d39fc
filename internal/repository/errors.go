// Package repository contains the data access layer: parameterized SQL over
// a shared *sql.DB pool, one repository per entity family.  Sentinel errors
// defined here are shared across repositories so handlers can translate
// failures into the HTTP taxonomy (400 validation, 404 not found, 409
// conflict, 500 store failure) without inspecting driver errors themselves.
package repository

import "errors"

// ErrInvalidCatalog is returned when a caller-supplied catalog key is not in
// the descriptor registry.  It is raised before any query text is built, so
// an unknown or crafted key never reaches an identifier position.
var ErrInvalidCatalog = errors.New("catálogo no válido")

// ErrCodeConflict is returned when ticket code generation exhausted its
// retries because concurrent creations kept colliding on the unique codigo
// index.  Handlers translate it into HTTP 409.
var ErrCodeConflict = errors.New("no se pudo asignar un folio único")

// ErrFichaClosed is returned when attempting to close a ficha whose
// fecha_cierre is already set.  Closure happens exactly once.
var ErrFichaClosed = errors.New("la ficha ya está cerrada")
