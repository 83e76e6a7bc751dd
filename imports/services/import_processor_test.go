package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"event-planner-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type loggedFailure struct {
	message string
	line    int
}

// fakeImportStore is an in-memory ImportStore. Claim semantics match the GORM
// implementation: a conditional flip of in_progress gated on eligibility.
type fakeImportStore struct {
	*fakeTagStore

	fileImport *models.FileImport
	accounts   map[string]*models.Account
	guests     []*models.Guest
	guestTags  map[uuid.UUID][]uuid.UUID
	failures   []loggedFailure
}

func newFakeImportStore(fileImport *models.FileImport) *fakeImportStore {
	return &fakeImportStore{
		fakeTagStore: newFakeTagStore(),
		fileImport:   fileImport,
		accounts:     make(map[string]*models.Account),
		guestTags:    make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *fakeImportStore) ClaimImport(importID uuid.UUID) (*models.FileImport, error) {
	fi := s.fileImport
	if fi == nil || fi.ID != importID || fi.InProgress || fi.CurrentLine >= fi.TotalLine {
		return nil, ErrImportUnavailable
	}
	fi.InProgress = true
	copied := *fi
	return &copied, nil
}

func (s *fakeImportStore) FinishImport(importID uuid.UUID) error {
	s.fileImport.InProgress = false
	return nil
}

func (s *fakeImportStore) UpdateCurrentLine(importID uuid.UUID, line int) error {
	s.fileImport.CurrentLine = line
	return nil
}

func (s *fakeImportStore) LogImportError(importID uuid.UUID, message string, line int) error {
	s.failures = append(s.failures, loggedFailure{message: message, line: line})
	return nil
}

func (s *fakeImportStore) GuestEmailExists(organizationID uuid.UUID, email string) (bool, error) {
	for _, g := range s.guests {
		if g.OrganizationID == organizationID && g.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeImportStore) GetAccountByEmail(email string) (*models.Account, error) {
	return s.accounts[email], nil
}

func (s *fakeImportStore) CreateGuestWithTags(guest *models.Guest, tagIDs []uuid.UUID) error {
	s.guests = append(s.guests, guest)
	s.guestTags[guest.ID] = tagIDs
	return nil
}

const importTestCSV = "first_name,last_name,email,phone_number,address,city,state,zip,country,tags\n" +
	"Jane,Doe,jane@example.com,555-0100,1 Main St,Springfield,IL,62701,USA,\"[vip, family]\"\n" +
	"John,Smith,john@example.com\n" +
	"Ada,Lovelace,ada@example.com,555-0101,2 Side St,Springfield,IL,62701,USA,[]\n"

func setupImport(t *testing.T, csvContent string) (*ImportProcessor, *fakeImportStore, uuid.UUID) {
	t.Helper()

	dir := t.TempDir()
	fileName := "guests.csv"
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(csvContent), 0o644); err != nil {
		t.Fatalf("write import file: %v", err)
	}

	importID := uuid.New()
	orgID := uuid.New()
	fileImport := &models.FileImport{
		ID:        importID,
		TotalLine: 3,
		File: models.File{
			ID:             uuid.New(),
			FileName:       fileName,
			FileType:       models.CSVFileType,
			OrganizationID: orgID,
		},
	}

	store := newFakeImportStore(fileImport)
	processor := NewImportProcessor(store, dir, zap.NewNop())
	return processor, store, importID
}

func TestProcessMixedFile(t *testing.T) {
	processor, store, importID := setupImport(t, importTestCSV)

	summary, err := processor.Process(context.Background(), importID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if summary.Processed != 3 || summary.Succeeded != 1 || summary.Failed != 2 {
		t.Errorf("summary = %+v, want 3 processed / 1 succeeded / 2 failed", summary)
	}

	if len(store.guests) != 1 {
		t.Fatalf("got %d guests, want 1", len(store.guests))
	}
	guest := store.guests[0]
	if guest.FirstName != "Jane" || guest.Email != "jane@example.com" {
		t.Errorf("unexpected guest: %+v", guest)
	}
	if guest.Location != "1 Main St, Springfield, IL, 62701, USA" {
		t.Errorf("location = %q", guest.Location)
	}
	if guest.RSVPStatus != models.RSVPPending {
		t.Errorf("rsvp_status = %q, want %q", guest.RSVPStatus, models.RSVPPending)
	}
	if len(store.guestTags[guest.ID]) != 2 {
		t.Errorf("got %d tag associations, want 2", len(store.guestTags[guest.ID]))
	}

	if len(store.failures) != 2 {
		t.Fatalf("got %d failures, want 2: %+v", len(store.failures), store.failures)
	}
	if store.failures[0].line != 2 || store.failures[0].message != "Missing phone_number in line: 2" {
		t.Errorf("first failure = %+v", store.failures[0])
	}
	if store.failures[1].line != 3 || store.failures[1].message != "No valid tags found" {
		t.Errorf("second failure = %+v", store.failures[1])
	}

	if store.fileImport.CurrentLine != 3 {
		t.Errorf("current_line = %d, want 3", store.fileImport.CurrentLine)
	}
	if store.fileImport.InProgress {
		t.Error("in_progress still set after completion")
	}
}

func TestProcessRefusedClaim(t *testing.T) {
	processor, store, importID := setupImport(t, importTestCSV)
	store.fileImport.InProgress = true

	_, err := processor.Process(context.Background(), importID)
	if !errors.Is(err, ErrImportUnavailable) {
		t.Fatalf("expected ErrImportUnavailable, got %v", err)
	}
}

func TestProcessResumesPastWatermark(t *testing.T) {
	processor, store, importID := setupImport(t, importTestCSV)
	// Row 1 was accounted for by a previous run before its worker died.
	store.fileImport.CurrentLine = 1

	summary, err := processor.Process(context.Background(), importID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	// Rows at or below the watermark are skipped without re-validation, so
	// Jane is neither re-created nor reported as a duplicate.
	if summary.Processed != 2 {
		t.Errorf("processed = %d, want 2", summary.Processed)
	}
	if len(store.guests) != 0 {
		t.Errorf("got %d guests, want 0 (row 1 skipped)", len(store.guests))
	}
	if len(store.failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(store.failures))
	}
	if store.failures[0].line != 2 || store.failures[1].line != 3 {
		t.Errorf("failure lines = %d, %d, want 2, 3", store.failures[0].line, store.failures[1].line)
	}
	if store.fileImport.CurrentLine != 3 {
		t.Errorf("current_line = %d, want 3", store.fileImport.CurrentLine)
	}
}

func TestProcessDuplicateGuest(t *testing.T) {
	processor, store, importID := setupImport(t, importTestCSV)
	store.guests = append(store.guests, &models.Guest{
		ID:             uuid.New(),
		Email:          "jane@example.com",
		OrganizationID: store.fileImport.File.OrganizationID,
	})

	summary, err := processor.Process(context.Background(), importID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if summary.Succeeded != 0 || summary.Failed != 3 {
		t.Errorf("summary = %+v, want 0 succeeded / 3 failed", summary)
	}
	if store.failures[0].message != "Guest with email jane@example.com already exists" {
		t.Errorf("first failure = %+v", store.failures[0])
	}
}

func TestProcessAccountNamePrecedence(t *testing.T) {
	csv := "first_name,last_name,email,phone_number,address,city,state,zip,country,tags\n" +
		"Imported,Name,jane@example.com,555-0100,,,,,,[vip]\n" +
		",,noname@example.com,555-0101,,,,,,[vip]\n" +
		",,blank@example.com,555-0102,,,,,,[vip]\n"
	processor, store, importID := setupImport(t, csv)

	store.accounts["jane@example.com"] = &models.Account{
		ID:        uuid.New(),
		Email:     "jane@example.com",
		FirstName: "Registered",
		LastName:  "Account",
	}
	// Account present but its name fields are empty: the row values stand,
	// and an all-empty first name is a row failure.
	store.accounts["blank@example.com"] = &models.Account{
		ID:    uuid.New(),
		Email: "blank@example.com",
	}

	summary, err := processor.Process(context.Background(), importID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if summary.Succeeded != 1 || summary.Failed != 2 {
		t.Fatalf("summary = %+v, want 1 succeeded / 2 failed", summary)
	}

	guest := store.guests[0]
	if guest.FirstName != "Registered" || guest.LastName != "Account" {
		t.Errorf("account name did not win: %+v", guest)
	}

	for _, f := range store.failures {
		want := "First name is required for guest with email "
		if f.message != want+"noname@example.com" && f.message != want+"blank@example.com" {
			t.Errorf("unexpected failure: %+v", f)
		}
	}
}

func TestProcessCancelledContextReleasesClaim(t *testing.T) {
	processor, store, importID := setupImport(t, importTestCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := processor.Process(ctx, importID)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if store.fileImport.InProgress {
		t.Error("in_progress still set after cancelled run")
	}
}
