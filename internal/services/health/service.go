package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Report is the health payload served by the API.
type Report struct {
	OK        bool   `json:"ok"`
	Database  string `json:"database"`
	ParseMode string `json:"parseMode,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB        *sql.DB
	ParseMode string
}

// NewService constructs a new health service. A nil db reports in-memory storage.
func NewService(db *sql.DB, parseMode string) *Service {
	return &Service{DB: db, ParseMode: parseMode}
}

// Status pings the database when one is configured.
func (s *Service) Status(ctx context.Context) Report {
	report := Report{OK: true, Database: "memory", ParseMode: s.ParseMode}
	if s.DB == nil {
		return report
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		report.OK = false
		report.Database = "unreachable"
		return report
	}
	report.Database = "postgres"
	return report
}
