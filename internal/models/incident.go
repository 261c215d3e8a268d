package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Status - статус жизненного цикла инцидента
type Status string

const (
	StatusReported   Status = "reported"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusArchived   Status = "archived"
)

// transitions - допустимые переходы статусов. Из терминальных статусов переходов нет.
var transitions = map[Status][]Status{
	StatusReported:   {StatusReported, StatusInProgress},
	StatusInProgress: {StatusInProgress, StatusResolved, StatusArchived},
	StatusResolved:   nil,
	StatusArchived:   nil,
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal сообщает, закрыт ли инцидент (resolved или archived)
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusArchived
}

// CanTransitionTo проверяет переход по таблице переходов
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// Severity - степень серьезности инцидента
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Note - запись аудита по инциденту. Список заметок только дополняется.
type Note struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Incident struct {
	ID                  uuid.UUID     `json:"id"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Coordinate          Coordinate    `json:"coordinate"`
	Status              Status        `json:"status"`
	Severity            Severity      `json:"severity"`
	NotifiedAuthorities []AuthorityID `json:"notified_authorities"`
	Notes               []Note        `json:"notes,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// HasNotified сообщает, была ли служба уже оповещена
func (i *Incident) HasNotified(id AuthorityID) bool {
	return slices.Contains(i.NotifiedAuthorities, id)
}

// IncidentFilter - фильтр списка инцидентов с пагинацией
type IncidentFilter struct {
	Status   Status
	Severity Severity
	Page     int
	PageSize int
}

// StatusUpdate - запрос офицера на изменение инцидента
type StatusUpdate struct {
	Status              *Status
	Severity            *Severity
	Notes               string
	Author              string
	AuthoritiesToNotify []AuthorityID
}

// StatusChange - то, что уходит во внешнее хранилище: итоговые статус, серьезность и полный набор служб
type StatusChange struct {
	Status              Status
	Severity            Severity
	Note                Note
	NotifiedAuthorities []AuthorityID
}

// MergeAuthorities возвращает объединение множеств без дубликатов, сохраняя порядок первого появления
func MergeAuthorities(current, added []AuthorityID) []AuthorityID {
	merged := make([]AuthorityID, 0, len(current)+len(added))
	for _, id := range slices.Concat(current, added) {
		if !slices.Contains(merged, id) {
			merged = append(merged, id)
		}
	}
	return merged
}

func (s Status) String() string   { return string(s) }
func (s Severity) String() string { return string(s) }

// ParseStatus разбирает строковый статус
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, v)
	}
	return s, nil
}

// ParseSeverity разбирает строковую серьезность
func ParseSeverity(v string) (Severity, error) {
	s := Severity(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown severity %q", ErrValidation, v)
	}
	return s, nil
}
