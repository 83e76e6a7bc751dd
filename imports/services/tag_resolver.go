package services

import (
	"strings"

	"event-planner-backend/db/models"

	"github.com/google/uuid"
)

// TagStore is the persistence surface tag resolution needs.
type TagStore interface {
	// GetOrganizationTagByName returns nil, nil when no tag matches.
	GetOrganizationTagByName(organizationID uuid.UUID, name string) (*models.OrganizationTag, error)
	CreateOrganizationTag(tag *models.OrganizationTag) error
}

// ResolveTags maps tag names to stable tag ids within an organization,
// creating missing tags with tag_type "guest". Names are lowercased and
// trimmed; duplicates within one call resolve to a single id. An empty input
// yields an empty output (the orchestrator treats that as a row failure).
func ResolveTags(names []string, organizationID uuid.UUID, store TagStore) ([]uuid.UUID, error) {
	tagIDs := make([]uuid.UUID, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		tag, err := store.GetOrganizationTagByName(organizationID, name)
		if err != nil {
			return nil, err
		}
		if tag != nil {
			tagIDs = append(tagIDs, tag.ID)
			continue
		}

		tag = &models.OrganizationTag{
			ID:             uuid.New(),
			OrganizationID: organizationID,
			Name:           name,
			TagType:        models.GuestTagType,
		}
		if err := store.CreateOrganizationTag(tag); err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	return tagIDs, nil
}
