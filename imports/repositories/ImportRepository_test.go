package repositories

import (
	"errors"
	"os"
	"testing"
	"time"

	"event-planner-backend/db/models"
	"event-planner-backend/imports/services"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB connects to the database named by TEST_DATABASE_URL and migrates the
// tables these tests touch. Tests are skipped when the variable is unset so
// the suite stays runnable without infrastructure.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.File{},
		&models.FileImport{},
		&models.FailedFileImport{},
		&models.OrganizationTag{},
		&models.Guest{},
		&models.GuestTag{},
		&models.Account{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func seedImport(t *testing.T, db *gorm.DB, totalLine int) *models.FileImport {
	t.Helper()

	file := &models.File{
		ID:             uuid.New(),
		FileName:       "guests.csv",
		FileFor:        "guests",
		FileType:       models.CSVFileType,
		OrganizationID: uuid.New(),
		RequestType:    models.ImportRequestType,
		CreatedBy:      "uploader@example.com",
	}
	fileImport := &models.FileImport{
		ID:        uuid.New(),
		TotalLine: totalLine,
		CreatedBy: "uploader@example.com",
	}

	repo := NewImportRepository(db)
	if err := repo.CreateFileWithImport(file, fileImport); err != nil {
		t.Fatalf("seed import: %v", err)
	}

	t.Cleanup(func() {
		db.Delete(&models.FailedFileImport{}, "import_id = ?", fileImport.ID)
		db.Delete(&models.FileImport{}, "id = ?", fileImport.ID)
		db.Delete(&models.File{}, "id = ?", file.ID)
	})

	return fileImport
}

func TestClaimImportIsExclusive(t *testing.T) {
	db := testDB(t)
	repo := NewImportRepository(db)
	fileImport := seedImport(t, db, 10)

	claimed, err := repo.ClaimImport(fileImport.ID)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if !claimed.InProgress {
		t.Error("claimed import not marked in progress")
	}
	if claimed.File.FileName != "guests.csv" {
		t.Error("claim did not preload the file")
	}

	_, err = repo.ClaimImport(fileImport.ID)
	if !errors.Is(err, services.ErrImportUnavailable) {
		t.Fatalf("second claim: expected ErrImportUnavailable, got %v", err)
	}
}

func TestClaimImportRefusesCompletedImport(t *testing.T) {
	db := testDB(t)
	repo := NewImportRepository(db)
	fileImport := seedImport(t, db, 5)

	if err := repo.UpdateCurrentLine(fileImport.ID, 5); err != nil {
		t.Fatalf("set watermark: %v", err)
	}

	_, err := repo.ClaimImport(fileImport.ID)
	if !errors.Is(err, services.ErrImportUnavailable) {
		t.Fatalf("expected ErrImportUnavailable for completed import, got %v", err)
	}
}

func TestFinishImportReleasesClaim(t *testing.T) {
	db := testDB(t)
	repo := NewImportRepository(db)
	fileImport := seedImport(t, db, 10)

	if _, err := repo.ClaimImport(fileImport.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := repo.FinishImport(fileImport.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}

	if _, err := repo.ClaimImport(fileImport.ID); err != nil {
		t.Fatalf("reclaim after finish: %v", err)
	}
}

func TestWatermarkAndFailures(t *testing.T) {
	db := testDB(t)
	repo := NewImportRepository(db)
	fileImport := seedImport(t, db, 10)

	if err := repo.UpdateCurrentLine(fileImport.ID, 3); err != nil {
		t.Fatalf("update watermark: %v", err)
	}
	if err := repo.LogImportError(fileImport.ID, "Invalid email: nope", 2); err != nil {
		t.Fatalf("log failure: %v", err)
	}
	if err := repo.LogImportError(fileImport.ID, "No valid tags found", 3); err != nil {
		t.Fatalf("log failure: %v", err)
	}

	got, err := repo.GetImportByID(fileImport.ID)
	if err != nil {
		t.Fatalf("get import: %v", err)
	}
	if got.CurrentLine != 3 {
		t.Errorf("current_line = %d, want 3", got.CurrentLine)
	}

	count, err := repo.CountImportFailures(fileImport.ID)
	if err != nil {
		t.Fatalf("count failures: %v", err)
	}
	if count != 2 {
		t.Errorf("failure count = %d, want 2", count)
	}

	failures, err := repo.ListImportFailures(fileImport.ID)
	if err != nil {
		t.Fatalf("list failures: %v", err)
	}
	if len(failures) != 2 || failures[0].LineNumber != 2 || failures[1].LineNumber != 3 {
		t.Errorf("unexpected failure order: %+v", failures)
	}
}

func TestReclaimStalledImports(t *testing.T) {
	db := testDB(t)
	repo := NewImportRepository(db)
	fileImport := seedImport(t, db, 10)

	if _, err := repo.ClaimImport(fileImport.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// Backdate the heartbeat so the claim looks abandoned.
	err := db.Model(&models.FileImport{}).
		Where("id = ?", fileImport.ID).
		UpdateColumn("updated_at", time.Now().Add(-time.Hour)).Error
	if err != nil {
		t.Fatalf("backdate heartbeat: %v", err)
	}

	reclaimed, err := repo.ReclaimStalledImports(15 * time.Minute)
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if reclaimed < 1 {
		t.Fatalf("reclaimed = %d, want at least 1", reclaimed)
	}

	if _, err := repo.ClaimImport(fileImport.ID); err != nil {
		t.Fatalf("claim after reclaim: %v", err)
	}
}

func TestGuestEmailExistsIsTenantScoped(t *testing.T) {
	db := testDB(t)
	repo := NewImportRepository(db)

	orgA := uuid.New()
	orgB := uuid.New()
	guest := &models.Guest{
		ID:             uuid.New(),
		FirstName:      "Jane",
		Email:          "jane@example.com",
		OrganizationID: orgA,
		RSVPStatus:     models.RSVPPending,
	}
	if err := repo.CreateGuestWithTags(guest, nil); err != nil {
		t.Fatalf("create guest: %v", err)
	}
	t.Cleanup(func() {
		db.Delete(&models.Guest{}, "id = ?", guest.ID)
	})

	exists, err := repo.GuestEmailExists(orgA, "jane@example.com")
	if err != nil {
		t.Fatalf("exists check: %v", err)
	}
	if !exists {
		t.Error("expected guest to exist in its own organization")
	}

	exists, err = repo.GuestEmailExists(orgB, "jane@example.com")
	if err != nil {
		t.Fatalf("exists check: %v", err)
	}
	if exists {
		t.Error("guest leaked across organizations")
	}
}
