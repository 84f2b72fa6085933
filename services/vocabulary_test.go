package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkhive/models"
	"linkhive/services"
)

// fakeVocabularyStore keeps tags and associations in memory and gives
// InTransaction snapshot semantics: an error from fn restores the state
// taken at transaction start.
type fakeVocabularyStore struct {
	tags  map[primitive.ObjectID]*models.Tag
	links []models.BookmarkTag

	failRenameOf primitive.ObjectID
}

func newFakeVocabularyStore() *fakeVocabularyStore {
	return &fakeVocabularyStore{tags: make(map[primitive.ObjectID]*models.Tag)}
}

func (f *fakeVocabularyStore) addTag(name string, usage int64) *models.Tag {
	t := &models.Tag{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameKey:    strings.ToLower(name),
		Type:       models.TagTypeSystem,
		UsageCount: usage,
	}
	f.tags[t.ID] = t
	return t
}

func (f *fakeVocabularyStore) link(bookmarkID primitive.ObjectID, tag *models.Tag) {
	f.links = append(f.links, models.BookmarkTag{
		ID:         primitive.NewObjectID(),
		BookmarkID: bookmarkID,
		TagID:      tag.ID,
	})
}

func (f *fakeVocabularyStore) snapshot() (map[primitive.ObjectID]models.Tag, []models.BookmarkTag) {
	tags := make(map[primitive.ObjectID]models.Tag, len(f.tags))
	for id, t := range f.tags {
		tags[id] = *t
	}
	links := make([]models.BookmarkTag, len(f.links))
	copy(links, f.links)
	return tags, links
}

func (f *fakeVocabularyStore) restore(tags map[primitive.ObjectID]models.Tag, links []models.BookmarkTag) {
	f.tags = make(map[primitive.ObjectID]*models.Tag, len(tags))
	for id, t := range tags {
		cp := t
		f.tags[id] = &cp
	}
	f.links = links
}

func (f *fakeVocabularyStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tags, links := f.snapshot()
	if err := fn(ctx); err != nil {
		f.restore(tags, links)
		return err
	}
	return nil
}

func (f *fakeVocabularyStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(f.tags))
	for _, t := range f.tags {
		out = append(out, *t)
	}
	// deterministic order by id, oldest first
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ID.Hex() < out[j-1].ID.Hex(); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeVocabularyStore) RenameTag(ctx context.Context, id primitive.ObjectID, name, nameKey string) error {
	if f.failRenameOf == id && !strings.HasPrefix(name, "~mig:") {
		return errors.New("injected rename failure")
	}
	t, ok := f.tags[id]
	if !ok {
		return errors.New("tag not found")
	}
	for other, ot := range f.tags {
		if other != id && ot.NameKey == nameKey {
			return errors.New("duplicate key on name_key")
		}
	}
	t.Name = name
	t.NameKey = nameKey
	return nil
}

func (f *fakeVocabularyStore) DeleteTag(ctx context.Context, id primitive.ObjectID) error {
	delete(f.tags, id)
	return nil
}

func (f *fakeVocabularyStore) SetUsageCount(ctx context.Context, id primitive.ObjectID, count int64) error {
	t, ok := f.tags[id]
	if !ok {
		return errors.New("tag not found")
	}
	t.UsageCount = count
	return nil
}

func (f *fakeVocabularyStore) ListAssociationsByTag(ctx context.Context, tagID primitive.ObjectID) ([]models.BookmarkTag, error) {
	var out []models.BookmarkTag
	for _, l := range f.links {
		if l.TagID == tagID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeVocabularyStore) UpsertAssociation(ctx context.Context, bookmarkID, tagID primitive.ObjectID) error {
	for _, l := range f.links {
		if l.BookmarkID == bookmarkID && l.TagID == tagID {
			return nil
		}
	}
	f.links = append(f.links, models.BookmarkTag{
		ID:         primitive.NewObjectID(),
		BookmarkID: bookmarkID,
		TagID:      tagID,
	})
	return nil
}

func (f *fakeVocabularyStore) DeleteAssociationsByTag(ctx context.Context, tagID primitive.ObjectID) error {
	kept := f.links[:0]
	for _, l := range f.links {
		if l.TagID != tagID {
			kept = append(kept, l)
		}
	}
	f.links = kept
	return nil
}

func (f *fakeVocabularyStore) CountAssociations(ctx context.Context, tagID primitive.ObjectID) (int64, error) {
	var n int64
	for _, l := range f.links {
		if l.TagID == tagID {
			n++
		}
	}
	return n, nil
}

func (f *fakeVocabularyStore) byName(name string) *models.Tag {
	for _, t := range f.tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func TestMigrateVocabularyMergesCaseVariants(t *testing.T) {
	store := newFakeVocabularyStore()
	jsLower := store.addTag("javascript", 3)
	jsUpper := store.addTag("JavaScript", 2)

	for i := 0; i < 3; i++ {
		store.link(primitive.NewObjectID(), jsLower)
	}
	for i := 0; i < 2; i++ {
		store.link(primitive.NewObjectID(), jsUpper)
	}

	report, err := services.NewVocabularyService(store).MigrateVocabulary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Merged)
	assert.Equal(t, 1, report.Survived)
	require.Len(t, store.tags, 1)

	survivor := store.byName("Javascript")
	require.NotNil(t, survivor)
	assert.Equal(t, jsLower.ID, survivor.ID, "higher usage count wins")
	assert.EqualValues(t, 5, survivor.UsageCount)
	n, _ := store.CountAssociations(context.Background(), survivor.ID)
	assert.EqualValues(t, 5, n)
}

func TestMigrateVocabularyMergeDeduplicatesSharedBookmarks(t *testing.T) {
	store := newFakeVocabularyStore()
	a := store.addTag("react", 2)
	b := store.addTag("React", 2)

	shared := primitive.NewObjectID()
	store.link(shared, a)
	store.link(shared, b) // same bookmark carries both variants
	store.link(primitive.NewObjectID(), a)

	_, err := services.NewVocabularyService(store).MigrateVocabulary(context.Background())
	require.NoError(t, err)

	require.Len(t, store.tags, 1)
	survivor := store.byName("React")
	require.NotNil(t, survivor)
	n, _ := store.CountAssociations(context.Background(), survivor.ID)
	assert.EqualValues(t, 2, n, "shared bookmark must collapse to one association")
	assert.EqualValues(t, 2, survivor.UsageCount)
}

func TestMigrateVocabularyRenamesWithoutConflict(t *testing.T) {
	store := newFakeVocabularyStore()
	store.addTag("  machine learning ", 1)
	store.addTag("DATABASES", 1)
	store.addTag("Golang", 1)

	report, err := services.NewVocabularyService(store).MigrateVocabulary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Survived)
	assert.Equal(t, 0, report.Merged)
	assert.NotNil(t, store.byName("Machine Learning"))
	assert.NotNil(t, store.byName("Database"))
	assert.NotNil(t, store.byName("Golang"))
}

func TestMigrateVocabularySwappedNamesDoNotCollide(t *testing.T) {
	// "react" and "REACT" both target the key "react" that one of them
	// already holds. Phase-1 placeholders keep the renames from ever
	// colliding with the unique name_key index.
	store := newFakeVocabularyStore()
	store.addTag("react", 1)
	store.addTag("REACT", 1)
	store.addTag("nodejs", 1)

	_, err := services.NewVocabularyService(store).MigrateVocabulary(context.Background())
	require.NoError(t, err)

	require.Len(t, store.tags, 2)
	assert.NotNil(t, store.byName("React"))
	assert.NotNil(t, store.byName("Nodejs"))
}

func TestMigrateVocabularySkipsTagsThatNormalizeToNothing(t *testing.T) {
	store := newFakeVocabularyStore()
	weird := store.addTag("!!!", 1)
	store.addTag("docker", 1)

	report, err := services.NewVocabularyService(store).MigrateVocabulary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	require.Contains(t, store.tags, weird.ID)
	assert.Equal(t, "!!!", store.tags[weird.ID].Name, "unnormalizable tag stays untouched")
	assert.NotNil(t, store.byName("Docker"))
}

func TestMigrateVocabularyRollsBackOnFailure(t *testing.T) {
	store := newFakeVocabularyStore()
	a := store.addTag("javascript", 3)
	b := store.addTag("JavaScript", 2)
	c := store.addTag("docker", 1)
	store.link(primitive.NewObjectID(), a)
	store.link(primitive.NewObjectID(), b)
	store.link(primitive.NewObjectID(), c)

	store.failRenameOf = c.ID

	_, err := services.NewVocabularyService(store).MigrateVocabulary(context.Background())
	require.Error(t, err)

	// everything is back to the pre-migration state
	require.Len(t, store.tags, 3)
	assert.Equal(t, "javascript", store.tags[a.ID].Name)
	assert.Equal(t, "JavaScript", store.tags[b.ID].Name)
	assert.Equal(t, "docker", store.tags[c.ID].Name)
	assert.Len(t, store.links, 3)
}

func TestMigrateVocabularyIsIdempotent(t *testing.T) {
	store := newFakeVocabularyStore()
	a := store.addTag("kubernetes", 2)
	store.link(primitive.NewObjectID(), a)
	store.link(primitive.NewObjectID(), a)

	svc := services.NewVocabularyService(store)
	_, err := svc.MigrateVocabulary(context.Background())
	require.NoError(t, err)

	first, _ := store.snapshot()

	report, err := svc.MigrateVocabulary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Merged)
	assert.Equal(t, 0, report.Renamed)

	second, _ := store.snapshot()
	assert.Equal(t, first, second)
}
