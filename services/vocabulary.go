package services

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkhive/logger"
	"linkhive/models"
	"linkhive/tagnorm"
)

// VocabularyStore is the transactional tag/association contract for the
// migration. VocabularyRepository is the mongo implementation.
type VocabularyStore interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	ListTags(ctx context.Context) ([]models.Tag, error)
	RenameTag(ctx context.Context, id primitive.ObjectID, name, nameKey string) error
	DeleteTag(ctx context.Context, id primitive.ObjectID) error
	SetUsageCount(ctx context.Context, id primitive.ObjectID, count int64) error
	ListAssociationsByTag(ctx context.Context, tagID primitive.ObjectID) ([]models.BookmarkTag, error)
	UpsertAssociation(ctx context.Context, bookmarkID, tagID primitive.ObjectID) error
	DeleteAssociationsByTag(ctx context.Context, tagID primitive.ObjectID) error
	CountAssociations(ctx context.Context, tagID primitive.ObjectID) (int64, error)
}

// MigrationReport summarizes one vocabulary migration run.
type MigrationReport struct {
	Scanned  int `json:"scanned"`
	Renamed  int `json:"renamed"`
	Merged   int `json:"merged"`
	Skipped  int `json:"skipped"`
	Survived int `json:"survived"`
}

// VocabularyService rewrites the whole tag vocabulary into normalized
// form.
type VocabularyService struct {
	store VocabularyStore
}

func NewVocabularyService(store VocabularyStore) *VocabularyService {
	return &VocabularyService{store: store}
}

// migrationPlaceholder returns the phase-1 name for a tag. The "~mig:"
// prefix cannot survive normalization ('~' and ':' are stripped), so it
// can never collide with a real tag name.
func migrationPlaceholder(id primitive.ObjectID) string {
	return "~mig:" + id.Hex()
}

// tagGroup collects existing tags that normalize to the same canonical
// name.
type tagGroup struct {
	name string // normalized presentable name
	key  string
	tags []models.Tag
}

// MigrateVocabulary renames every tag to its normalized form and merges
// tags whose normalized forms collide. The whole rewrite runs inside one
// transaction: either the full vocabulary converts or nothing changes.
//
// Renames go through per-tag placeholders first so that swaps like
// {"react" -> "React", "React" staying "React"} never trip the unique
// index on name_key mid-flight.
func (s *VocabularyService) MigrateVocabulary(ctx context.Context) (*MigrationReport, error) {
	report := &MigrationReport{}

	err := s.store.InTransaction(ctx, func(ctx context.Context) error {
		tags, err := s.store.ListTags(ctx)
		if err != nil {
			return fmt.Errorf("list tags: %w", err)
		}
		report.Scanned = len(tags)

		groups := make(map[string]*tagGroup)
		order := make([]string, 0, len(tags))
		for _, t := range tags {
			normalized := tagnorm.Normalize(t.Name)
			if normalized == "" {
				// nothing survives normalization, leave the tag alone
				report.Skipped++
				continue
			}
			key := tagnorm.Key(normalized)
			g, exists := groups[key]
			if !exists {
				g = &tagGroup{name: normalized, key: key}
				groups[key] = g
				order = append(order, key)
			}
			g.tags = append(g.tags, t)
		}

		// Phase 1: move every affected tag to a placeholder name so the
		// final renames cannot collide with not-yet-renamed rows.
		for _, key := range order {
			for _, t := range groups[key].tags {
				if err := s.store.RenameTag(ctx, t.ID, migrationPlaceholder(t.ID), migrationPlaceholder(t.ID)); err != nil {
					return fmt.Errorf("stage tag %s: %w", t.ID.Hex(), err)
				}
			}
		}

		// Phase 2: pick one survivor per group, repoint the losers'
		// associations at it, then give the survivor its true name.
		for _, key := range order {
			g := groups[key]
			survivor, losers := pickSurvivor(g.tags)

			for _, loser := range losers {
				links, err := s.store.ListAssociationsByTag(ctx, loser.ID)
				if err != nil {
					return fmt.Errorf("list associations for %s: %w", loser.ID.Hex(), err)
				}
				for _, l := range links {
					if err := s.store.UpsertAssociation(ctx, l.BookmarkID, survivor.ID); err != nil {
						return fmt.Errorf("repoint association: %w", err)
					}
				}
				if err := s.store.DeleteAssociationsByTag(ctx, loser.ID); err != nil {
					return fmt.Errorf("delete associations for %s: %w", loser.ID.Hex(), err)
				}
				if err := s.store.DeleteTag(ctx, loser.ID); err != nil {
					return fmt.Errorf("delete tag %s: %w", loser.ID.Hex(), err)
				}
				report.Merged++
			}

			if err := s.store.RenameTag(ctx, survivor.ID, g.name, g.key); err != nil {
				return fmt.Errorf("rename tag %s to %q: %w", survivor.ID.Hex(), g.name, err)
			}
			if survivor.Name != g.name {
				report.Renamed++
			}
			report.Survived++

			// usage counts drift when associations collapse into one
			// pair, so recount from the join collection
			count, err := s.store.CountAssociations(ctx, survivor.ID)
			if err != nil {
				return fmt.Errorf("count associations for %s: %w", survivor.ID.Hex(), err)
			}
			if err := s.store.SetUsageCount(ctx, survivor.ID, count); err != nil {
				return fmt.Errorf("set usage count for %s: %w", survivor.ID.Hex(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Infof("vocabulary migration done: %d scanned, %d renamed, %d merged, %d skipped",
		report.Scanned, report.Renamed, report.Merged, report.Skipped)
	return report, nil
}

// pickSurvivor chooses the tag that keeps a conflict group's identity:
// highest usage count, ties broken by oldest ID.
func pickSurvivor(tags []models.Tag) (models.Tag, []models.Tag) {
	sorted := make([]models.Tag, len(tags))
	copy(sorted, tags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].UsageCount != sorted[j].UsageCount {
			return sorted[i].UsageCount > sorted[j].UsageCount
		}
		return sorted[i].ID.Hex() < sorted[j].ID.Hex()
	})
	return sorted[0], sorted[1:]
}
