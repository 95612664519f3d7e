package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/medhabt/technotes/internal/models"
)

// NotesIndex keeps the note documents searchable. It satisfies
// service.NoteIndexer.
type NotesIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewNotesIndex(es *elasticsearch.Client, index string) *NotesIndex {
	return &NotesIndex{ES: es, Index: index}
}

func (n *NotesIndex) IndexNote(ctx context.Context, note *models.Note) error {
	doc, err := json.Marshal(note)
	if err != nil {
		return err
	}

	res, err := n.ES.Index(
		n.Index,
		bytes.NewReader(doc),
		n.ES.Index.WithDocumentID(strconv.FormatUint(uint64(note.ID), 10)),
		n.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index note: %s", res.Status())
	}
	return nil
}

func (n *NotesIndex) DeleteNote(ctx context.Context, id uint) error {
	res, err := n.ES.Delete(
		n.Index,
		strconv.FormatUint(uint64(id), 10),
		n.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// A document missing from the index is fine on delete.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete note: %s", res.Status())
	}
	return nil
}

func (n *NotesIndex) SearchNotes(ctx context.Context, query string, from, size int) (int64, []models.Note, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "body"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := n.ES.Search(
		n.ES.Search.WithContext(ctx),
		n.ES.Search.WithIndex(n.Index),
		n.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search notes: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Note `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	notes := make([]models.Note, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		notes[i] = hit.Source
	}
	return r.Hits.Total.Value, notes, nil
}
