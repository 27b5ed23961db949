package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/repositories"
)

// ReportService produces staff-only XLSX exports.
type ReportService interface {
	ExportUsers(ctx context.Context, actor *models.User, w io.Writer) error
	ExportBorrows(ctx context.Context, actor *models.User, w io.Writer) error
}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) ExportUsers(ctx context.Context, actor *models.User, w io.Writer) error {
	if !actor.IsAdmin() {
		return NewPermissionError(userID(actor), 0, "report", "export", "requires staff privilege")
	}

	users, _, err := s.repo.User().List(ctx, repositories.UserFilters{})
	if err != nil {
		return fmt.Errorf("failed to load users for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Users"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "Email", "Username", "Name", "Student ID", "Faculty", "Department", "Category", "Active", "Staff", "Created"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return err
	}

	for i, u := range users {
		row := i + 2
		values := []interface{}{
			u.ID, u.Email, u.Username, u.FullName(), u.StudentID,
			u.Faculty, u.Department, string(u.StudentCategory),
			u.IsActive, u.IsStaff, u.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
	}

	s.logger.Info("Exported users report", "count", len(users), "actor_id", actor.ID)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write users report: %w", err)
	}
	return nil
}

func (s *reportService) ExportBorrows(ctx context.Context, actor *models.User, w io.Writer) error {
	if !actor.IsAdmin() {
		return NewPermissionError(userID(actor), 0, "report", "export", "requires staff privilege")
	}

	records, _, err := s.repo.Borrow().List(ctx, repositories.BorrowFilters{})
	if err != nil {
		return fmt.Errorf("failed to load borrows for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Borrows"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "User ID", "Book Title", "Borrow Date", "Return Date"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return err
	}

	for i, r := range records {
		returned := ""
		if r.ReturnDate != nil {
			returned = r.ReturnDate.Format("2006-01-02")
		}
		row := i + 2
		values := []interface{}{
			r.ID, r.UserID, r.BookTitle, r.BorrowDate.Format("2006-01-02"), returned,
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
	}

	s.logger.Info("Exported borrows report", "count", len(records), "actor_id", actor.ID)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write borrows report: %w", err)
	}
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell: %w", err)
		}
	}
	return nil
}
