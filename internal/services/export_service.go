package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/repositories"
)

const exportSheet = "Registrations"

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// ExportEventRegistrations renders the event's registration list as an xlsx
// workbook. Returns the file content and a suggested filename.
func (s *exportService) ExportEventRegistrations(ctx context.Context, eventID uint, actorID string) ([]byte, string, error) {
	s.logger.Info("exporting registrations", "event_id", eventID, "user_id", actorID)

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, "", err
	}

	event, err := s.repo.Event().GetByID(ctx, nil, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrEventNotFound
		}
		return nil, "", fmt.Errorf("failed to get event: %w", err)
	}

	if !CanExportRegistrations(actor, event) {
		return nil, "", NewPermissionError(actor.ID, eventID, "registration", "export", "only the event organizer can export registrations")
	}

	registrations, _, err := s.repo.Registration().ListByEvent(ctx, nil, eventID, repositories.RegistrationFilters{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list registrations: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"#", "Name", "Email", "College", "Department", "Year", "Status", "Registered At", "Attendance", "Rating", "Comment"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, registration := range registrations {
		values := registrationRow(row+1, registration)
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode workbook: %w", err)
	}

	filename := fmt.Sprintf("event_%d_registrations.xlsx", eventID)

	s.logger.Info("registrations exported", "event_id", eventID, "count", len(registrations))

	return buf.Bytes(), filename, nil
}

func registrationRow(number int, registration *models.Registration) []interface{} {
	values := []interface{}{
		number,
		registration.User.Name,
		registration.User.Email,
		derefString(registration.User.College),
		derefString(registration.User.Department),
		derefInt(registration.User.Year),
		string(registration.Status),
		registration.RegistrationDate.Format("2006-01-02 15:04"),
		string(registration.AttendanceStatus),
		"",
		"",
	}
	if registration.Feedback.Rating != nil {
		values[9] = *registration.Feedback.Rating
	}
	if registration.Feedback.Comment != nil {
		values[10] = *registration.Feedback.Comment
	}
	return values
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) interface{} {
	if i == nil {
		return ""
	}
	return *i
}
