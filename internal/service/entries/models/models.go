package models

import (
	"errors"
	"time"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/infra/storage/audit"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid entry status")
)

// Request модели

// LeaveEntryRequest запрос на выход из очереди / отмену записи
type LeaveEntryRequest struct {
	UserID string `json:"userId"`
	Reason string `json:"reason,omitempty"`
}

// AdvanceStatusRequest запрос на смену статуса записи (вендор)
type AdvanceStatusRequest struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// RateEntryRequest запрос на оценку завершённого обслуживания
type RateEntryRequest struct {
	UserID   string  `json:"userId"`
	Rating   int     `json:"rating"`
	Feedback *string `json:"feedback,omitempty"`
}

// GetLineEntriesRequest запрос на получение записей линии (вендор)
type GetLineEntriesRequest struct {
	UserID          string  `json:"userId"`
	LineID          string  `json:"lineId"`
	Status          *string `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeTerminal bool    `json:"includeTerminal,omitempty"` // Включить завершённые записи
}

// GetUserEntriesRequest запрос на историю записей клиента
type GetUserEntriesRequest struct {
	UserID string  `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// EntryResponse ответ с данными записи очереди
type EntryResponse struct {
	ID               string     `json:"id"`
	LineID           string     `json:"lineId"`
	CustomerID       string     `json:"customerId"`
	CustomerName     string     `json:"customerName"`
	JoinedAt         time.Time  `json:"joinedAt"`
	Status           string     `json:"status"`
	EstimatedMinutes int        `json:"estimatedMinutes"`
	BookedSlotStart  *time.Time `json:"bookedSlotStart,omitempty"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	Rating           *int       `json:"rating,omitempty"`
	Feedback         *string    `json:"feedback,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// EntryListResponse ответ со списком записей
type EntryListResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int              `json:"total"`
}

// PositionResponse ответ с позицией в живой очереди
type PositionResponse struct {
	EntryID string `json:"entryId"`
	LineID  string `json:"lineId"`
	Status  string `json:"status"`

	// Позиция в очереди (1-based) среди активных записей линии
	// Для записей со слотом позиция не считается и равна 0
	Position int `json:"position"`

	// Оценка ожидания, зафиксированная в момент постановки в очередь
	EstimatedMinutes int `json:"estimatedMinutes"`
}

// LineStatsResponse агрегированная статистика линии для вендора
type LineStatsResponse struct {
	LineID                string  `json:"lineId"`
	Waiting               int     `json:"waiting"`
	InProgress            int     `json:"inProgress"`
	OnHold                int     `json:"onHold"`
	ServedToday           int     `json:"servedToday"`
	NoShowsToday          int     `json:"noShowsToday"`
	AverageServiceMinutes float64 `json:"averageServiceMinutes"`
	AverageRating         float64 `json:"averageRating"`
}

// AuditRecordResponse одна запись журнала аудита
type AuditRecordResponse struct {
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuditListResponse журнал аудита записи
type AuditListResponse struct {
	EntryID string                 `json:"entryId"`
	Records []*AuditRecordResponse `json:"records"`
}

// Конвертеры

// FromDomainEntry конвертирует доменную запись в response
func FromDomainEntry(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:               e.ID,
		LineID:           e.LineID,
		CustomerID:       e.CustomerID,
		CustomerName:     e.CustomerName,
		JoinedAt:         e.JoinedAt,
		Status:           string(e.Status),
		EstimatedMinutes: e.EstimatedMinutes,
		BookedSlotStart:  e.BookedSlotStart,
		StartedAt:        e.StartedAt,
		CompletedAt:      e.CompletedAt,
		Rating:           e.Rating,
		Feedback:         e.Feedback,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// FromDomainEntryList конвертирует список доменных записей в response
func FromDomainEntryList(entries []*domain.Entry) *EntryListResponse {
	result := &EntryListResponse{
		Entries: make([]*EntryResponse, len(entries)),
		Total:   len(entries),
	}
	for i, e := range entries {
		result.Entries[i] = FromDomainEntry(e)
	}
	return result
}

// FromAuditRecords конвертирует записи журнала аудита в response
func FromAuditRecords(entryID string, records []*audit.Record) *AuditListResponse {
	result := &AuditListResponse{
		EntryID: entryID,
		Records: make([]*AuditRecordResponse, len(records)),
	}
	for i, rec := range records {
		result.Records[i] = &AuditRecordResponse{
			Action:    rec.Action,
			Detail:    rec.Detail,
			CreatedAt: rec.CreatedAt,
		}
	}
	return result
}

// ToDomainEntryStatus конвертирует строку в domain.EntryStatus с валидацией
func ToDomainEntryStatus(s string) (domain.EntryStatus, error) {
	status := domain.EntryStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
