package storage

import (
	"context"
	"fmt"

	"draftui/repository"
)

// Seed fills an empty repository with a root, a home folder, the article and
// folder content types and a few published articles to relate to. It does
// nothing when contents already exist.
func (r *LocalRepository) Seed(ctx context.Context, languageCode string) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contents`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count contents: %w", err)
	}
	if count > 0 {
		return nil
	}

	folder := &repository.ContentType{
		Identifier: "folder",
		Names:      map[string]string{languageCode: "Folder"},
		FieldDefinitions: []repository.FieldDefinition{
			{Identifier: "name", FieldTypeIdentifier: "ezstring", Names: map[string]string{languageCode: "Name"}, IsRequired: true, Position: 1},
		},
	}
	article := &repository.ContentType{
		Identifier: "article",
		Names:      map[string]string{languageCode: "Article"},
		FieldDefinitions: []repository.FieldDefinition{
			{Identifier: "title", FieldTypeIdentifier: "ezstring", Names: map[string]string{languageCode: "Title"}, IsRequired: true, Position: 1},
			{Identifier: "related", FieldTypeIdentifier: "ezobjectrelationlist", Names: map[string]string{languageCode: "Related articles"}, IsRequired: true, Position: 2},
			{Identifier: "see_also", FieldTypeIdentifier: "ezobjectrelationlist", Names: map[string]string{languageCode: "See also"}, Position: 3},
		},
	}
	for _, ct := range []*repository.ContentType{folder, article} {
		if err := r.SaveContentType(ctx, ct); err != nil {
			return err
		}
	}

	root, err := r.CreateLocation(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to create root location: %w", err)
	}

	home, err := r.createPublished(ctx, folder, root, languageCode, []repository.FieldInput{
		{FieldDefinitionIdentifier: "name", Value: "Home"},
	})
	if err != nil {
		return err
	}
	homeLoc := &repository.Location{ID: home.MainLocationID}

	var ids []int
	for _, title := range []string{"Getting started", "Release notes", "Editorial guidelines", "Contributors"} {
		c, err := r.createPublished(ctx, article, homeLoc, languageCode, []repository.FieldInput{
			{FieldDefinitionIdentifier: "title", Value: title},
			{FieldDefinitionIdentifier: "related", Value: map[string][]int{"destinationContentIds": append([]int{}, ids...)}},
		})
		if err != nil {
			return err
		}
		ids = append(ids, c.ID)
	}

	return nil
}

func (r *LocalRepository) createPublished(ctx context.Context, ct *repository.ContentType, parent *repository.Location, languageCode string, fields []repository.FieldInput) (*repository.Content, error) {
	resp, err := r.CreateContent(ctx, repository.CreateContentParams{
		LanguageCode:   languageCode,
		ContentType:    ct,
		ParentLocation: parent,
		Fields:         fields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed content: %w", err)
	}
	content, err := repository.ParseContent(resp.Document)
	if err != nil {
		return nil, err
	}
	if err := r.Publish(ctx, content.ID, 1); err != nil {
		return nil, fmt.Errorf("failed to publish seeded content: %w", err)
	}
	return content, nil
}
