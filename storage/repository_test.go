package storage

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"draftui/repository"
)

func newTestRepository(t *testing.T) *LocalRepository {
	t.Helper()
	repo, err := NewLocalRepository(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, "eng-GB"))
	first, err := repo.Search(ctx, "", 100)
	require.NoError(t, err)
	assert.Len(t, first, 5)

	require.NoError(t, repo.Seed(ctx, "eng-GB"))
	second, err := repo.Search(ctx, "", 100)
	require.NoError(t, err)
	assert.Len(t, second, 5)
}

func TestLoadContentType(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, "eng-GB"))

	ct, err := repo.LoadContentType(ctx, "article")
	require.NoError(t, err)
	assert.NotZero(t, ct.ID)
	require.Len(t, ct.FieldDefinitions, 3)
	assert.Equal(t, "ezobjectrelationlist", ct.FieldDefinitions[1].FieldTypeIdentifier)
	assert.True(t, ct.FieldDefinitions[1].IsRequired)

	_, err = repo.LoadContentType(ctx, "blog_post")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func createArticle(t *testing.T, repo *LocalRepository, title string) *repository.Content {
	t.Helper()
	ctx := context.Background()

	ct, err := repo.LoadContentType(ctx, "article")
	require.NoError(t, err)
	parent, err := repo.LoadLocation(ctx, 2)
	require.NoError(t, err)

	resp, err := repo.CreateContent(ctx, repository.CreateContentParams{
		LanguageCode:   "eng-GB",
		ContentType:    ct,
		ParentLocation: parent,
		Fields: []repository.FieldInput{
			{FieldDefinitionIdentifier: "title", Value: title},
			{FieldDefinitionIdentifier: "related", Value: map[string][]int{"destinationContentIds": {3}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)

	content, err := repository.ParseContent(resp.Document)
	require.NoError(t, err)
	return content
}

func TestCreateContent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, "eng-GB"))

	content := createArticle(t, repo, "Fresh news")
	assert.Equal(t, "Fresh news", content.Name)
	assert.Equal(t, 1, content.CurrentVersionNo)
	assert.NotEmpty(t, content.RemoteID)

	loc, err := repo.LoadLocation(ctx, content.MainLocationID)
	require.NoError(t, err)
	assert.Equal(t, 2, loc.ParentID)
	assert.Equal(t, content.ID, loc.ContentID)
	assert.Regexp(t, `^/1/2/\d+/$`, loc.PathString)

	v, err := repo.LoadVersion(ctx, content.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, repository.VersionStatusDraft, v.Status)
	field, ok := v.Field("related")
	require.True(t, ok)
	assert.Equal(t, "ezobjectrelationlist", field.FieldTypeIdentifier)
	assert.Equal(t, int64(3), gjson.GetBytes(field.Value, "destinationContentIds.0").Int())
}

func TestCreateContentResponseCarriesCurrentVersion(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, "eng-GB"))

	ct, err := repo.LoadContentType(ctx, "folder")
	require.NoError(t, err)
	resp, err := repo.CreateContent(ctx, repository.CreateContentParams{
		LanguageCode:   "eng-GB",
		ContentType:    ct,
		ParentLocation: &repository.Location{ID: 2},
		Fields:         []repository.FieldInput{{FieldDefinitionIdentifier: "name", Value: "Media"}},
	})
	require.NoError(t, err)

	doc, err := repository.CurrentVersionDocument(resp.Document)
	require.NoError(t, err)
	v, err := repository.ParseVersion(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, v.VersionNo)
	assert.NotZero(t, v.ContentID)
}

func TestCreateContentUnknownParent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, "eng-GB"))

	ct, err := repo.LoadContentType(ctx, "folder")
	require.NoError(t, err)
	_, err = repo.CreateContent(ctx, repository.CreateContentParams{
		LanguageCode:   "eng-GB",
		ContentType:    ct,
		ParentLocation: &repository.Location{ID: 999},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSaveVersion(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, "eng-GB"))
	content := createArticle(t, repo, "Draft")

	tests := []struct {
		name        string
		versionNo   int
		wantVersion int
	}{
		{"existing draft is updated in place", 1, 1},
		{"version 0 copies the current version", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := repo.SaveVersion(ctx, repository.SaveVersionParams{
				ContentID:    content.ID,
				VersionNo:    tt.versionNo,
				LanguageCode: "eng-GB",
				Fields: []repository.FieldInput{
					{FieldDefinitionIdentifier: "related", Value: map[string][]int{"destinationContentIds": {3, 4}}},
				},
			})
			require.NoError(t, err)

			v, err := repository.ParseVersion(resp.Document)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, v.VersionNo)

			stored, err := repo.LoadVersion(ctx, content.ID, tt.wantVersion)
			require.NoError(t, err)
			related, ok := stored.Field("related")
			require.True(t, ok)
			assert.JSONEq(t, `{"destinationContentIds":[3,4]}`, string(related.Value))
			title, ok := stored.Field("title")
			require.True(t, ok)
			assert.JSONEq(t, `"Draft"`, string(title.Value))
		})
	}
}

func TestSaveVersionOnPublishedCreatesDraft(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, "eng-GB"))
	content := createArticle(t, repo, "Published")
	require.NoError(t, repo.Publish(ctx, content.ID, 1))

	resp, err := repo.SaveVersion(ctx, repository.SaveVersionParams{ContentID: content.ID, VersionNo: 1, LanguageCode: "eng-GB"})
	require.NoError(t, err)

	v, err := repository.ParseVersion(resp.Document)
	require.NoError(t, err)
	assert.Equal(t, 2, v.VersionNo)
	assert.Equal(t, repository.VersionStatusDraft, v.Status)

	published, err := repo.LoadVersion(ctx, content.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, repository.VersionStatusPublished, published.Status)
}

func TestSaveVersionUnknownContent(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.SaveVersion(context.Background(), repository.SaveVersionParams{ContentID: 404, LanguageCode: "eng-GB"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLoadContentsKeepsRequestedOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, "eng-GB"))

	contents, err := repo.LoadContents(ctx, []int{5, 3, 999, 4})
	require.NoError(t, err)
	require.Len(t, contents, 3)
	assert.Equal(t, 5, contents[0].ID)
	assert.Equal(t, 3, contents[1].ID)
	assert.Equal(t, 4, contents[2].ID)

	empty, err := repo.LoadContents(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearch(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, "eng-GB"))

	hits, err := repo.Search(ctx, "release", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Release notes", hits[0].Name)
	assert.True(t, hits[0].Published)

	limited, err := repo.Search(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMergeFields(t *testing.T) {
	existing := []repository.Field{
		{FieldDefinitionIdentifier: "title", FieldTypeIdentifier: "ezstring", Value: []byte(`"a"`)},
	}
	merged := mergeFields(existing, []repository.Field{
		{FieldDefinitionIdentifier: "title", Value: []byte(`"b"`)},
		{FieldDefinitionIdentifier: "body", Value: []byte(`"c"`)},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "ezstring", merged[0].FieldTypeIdentifier)
	assert.JSONEq(t, `"b"`, string(merged[0].Value))
	assert.JSONEq(t, `"a"`, string(existing[0].Value))
	assert.Equal(t, "body", merged[1].FieldDefinitionIdentifier)
}
