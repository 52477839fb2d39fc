// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketCreatedEvent is published after a ticket creation commits.  It
// carries enough denormalized context for downstream consumers (audit log,
// Telegram notification) to act without querying the primary database.
// TelegramChatID is the assigned technician's chat when one was attached at
// creation, otherwise zero.
type TicketCreatedEvent struct {
    Codigo         string `json:"codigo"`
    Tipo           string `json:"tipo"` // EXTERNO | INTERNO
    Empresa        string `json:"empresa,omitempty"`
    NumAutobus     string `json:"num_autobus"`
    Falla          string `json:"falla,omitempty"`
    Estado         string `json:"estado"`
    TecnicoNombre  string `json:"tecnico,omitempty"`
    TelegramChatID int64  `json:"telegram_chat_id,omitempty"`
    CreatedAt      string `json:"created_at"`
}
