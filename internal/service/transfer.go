package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/linkstashapp/linkstash-server/internal/errors"
)

// exportVersion is the document version written by Export and required
// (as any non-empty value) by Import.
const exportVersion = "1.0"

// BookmarkRef is an {id}-only reference used inside labels and lists.
type BookmarkRef struct {
	ID string `json:"id"`
}

// ExportBookmark is a bookmark row stripped of its owner and label array.
// Labels are represented only through the labels collection to avoid
// duplicating the relation.
type ExportBookmark struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExportLabel is a label row with the reverse index of bookmarks carrying it.
type ExportLabel struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Bookmarks []BookmarkRef `json:"bookmarks"`
}

// ExportList is a list row with its member bookmark references.
type ExportList struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Bookmarks   []BookmarkRef `json:"bookmarks"`
}

// ExportDocument is the complete portable snapshot of one user's graph.
type ExportDocument struct {
	Bookmarks  []ExportBookmark `json:"bookmarks"`
	Labels     []ExportLabel    `json:"labels"`
	Lists      []ExportList     `json:"lists"`
	ExportDate time.Time        `json:"exportDate"`
	Version    string           `json:"version"`
}

// ImportCounter tallies per-category outcomes of an import.
type ImportCounter struct {
	Created int `json:"created"`
	Errors  int `json:"errors"`
}

// ImportResults is the per-category counter summary returned by Import.
type ImportResults struct {
	Labels         ImportCounter `json:"labels"`
	Bookmarks      ImportCounter `json:"bookmarks"`
	Lists          ImportCounter `json:"lists"`
	BookmarkLabels ImportCounter `json:"bookmarkLabels"`
	ListBookmarks  ImportCounter `json:"listBookmarks"`
}

// TransferService builds export documents and replays them under a new owner.
type TransferService struct {
	bookmarks *BookmarkService
	labels    *LabelService
	lists     *ListService
	logger    *slog.Logger
}

// NewTransferService creates a new import/export service.
func NewTransferService(bookmarks *BookmarkService, labels *LabelService, lists *ListService, logger *slog.Logger) *TransferService {
	return &TransferService{
		bookmarks: bookmarks,
		labels:    labels,
		lists:     lists,
		logger:    logger,
	}
}

// Export snapshots the user's full graph into a single portable document.
// Label attachments are derived from the bookmarks' embedded label arrays
// rather than a second relation query.
func (s *TransferService) Export(ctx context.Context, userID string) (*ExportDocument, error) {
	bookmarks, err := s.bookmarks.GetBookmarks(ctx, userID, "")
	if err != nil {
		return nil, errors.ExportError("error fetching bookmarks").WithCause(err)
	}
	labels, err := s.labels.GetLabels(ctx, userID)
	if err != nil {
		return nil, errors.ExportError("error fetching labels").WithCause(err)
	}
	lists, err := s.lists.GetLists(ctx, userID)
	if err != nil {
		return nil, errors.ExportError("error fetching lists").WithCause(err)
	}

	doc := &ExportDocument{
		Bookmarks:  make([]ExportBookmark, 0, len(bookmarks)),
		Labels:     make([]ExportLabel, 0, len(labels)),
		Lists:      make([]ExportList, 0, len(lists)),
		ExportDate: time.Now().UTC(),
		Version:    exportVersion,
	}

	// Reverse index: label id -> bookmarks carrying it.
	labelRefs := make(map[string][]BookmarkRef)
	for _, b := range bookmarks {
		for _, l := range b.Labels {
			labelRefs[l.ID] = append(labelRefs[l.ID], BookmarkRef{ID: b.ID})
		}

		doc.Bookmarks = append(doc.Bookmarks, ExportBookmark{
			ID:        b.ID,
			URL:       b.URL,
			Title:     b.Title,
			Thumbnail: b.Thumbnail,
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		})
	}

	for _, l := range labels {
		refs := labelRefs[l.ID]
		if refs == nil {
			refs = []BookmarkRef{}
		}
		doc.Labels = append(doc.Labels, ExportLabel{
			ID:        l.ID,
			Name:      l.Name,
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
			Bookmarks: refs,
		})
	}

	for _, l := range lists {
		members, err := s.lists.GetBookmarks(ctx, userID, l.ID)
		refs := []BookmarkRef{}
		if err == nil {
			for _, b := range members {
				refs = append(refs, BookmarkRef{ID: b.ID})
			}
		}
		doc.Lists = append(doc.Lists, ExportList{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			CreatedAt:   l.CreatedAt,
			UpdatedAt:   l.UpdatedAt,
			Bookmarks:   refs,
		})
	}

	s.logger.Info("export built",
		"user_id", userID,
		"bookmarks", len(doc.Bookmarks),
		"labels", len(doc.Labels),
		"lists", len(doc.Lists),
	)
	return doc, nil
}

// Import replays an export document under userID, remapping every old id
// to a freshly created one. Processing is best-effort and non-atomic:
// each per-item failure increments that category's error counter and the
// remaining items proceed. The document must carry a version field.
func (s *TransferService) Import(ctx context.Context, userID string, doc *ExportDocument) (*ImportResults, error) {
	if doc == nil || doc.Version == "" {
		return nil, errors.InvalidImportFormat("invalid import format: missing version")
	}

	results := &ImportResults{}

	// Old-id -> new-id maps driving relation remapping.
	labelIDs := make(map[string]string)
	bookmarkIDs := make(map[string]string)

	// 1. Labels.
	for _, label := range doc.Labels {
		created, err := s.labels.CreateLabel(ctx, userID, label.Name)
		if err != nil {
			results.Labels.Errors++
			continue
		}
		labelIDs[label.ID] = created.ID
		results.Labels.Created++
	}

	// 2. Bookmarks. A URL colliding with an existing global row fails
	// just that item and excludes it from the relation steps below.
	for _, bookmark := range doc.Bookmarks {
		created, err := s.bookmarks.AddBookmark(ctx, userID, bookmark.URL, bookmark.Title, bookmark.Thumbnail)
		if err != nil {
			results.Bookmarks.Errors++
			continue
		}
		bookmarkIDs[bookmark.ID] = created.ID
		results.Bookmarks.Created++
	}

	// 3. Label attachments, remapped through both maps. Unresolvable
	// references are skipped silently.
	for _, label := range doc.Labels {
		newLabelID, ok := labelIDs[label.ID]
		if !ok {
			continue
		}
		for _, ref := range label.Bookmarks {
			newBookmarkID, ok := bookmarkIDs[ref.ID]
			if !ok {
				continue
			}
			if err := s.bookmarks.AttachLabel(ctx, userID, newBookmarkID, newLabelID); err != nil {
				results.BookmarkLabels.Errors++
				continue
			}
			results.BookmarkLabels.Created++
		}
	}

	// 4. Lists, then their memberships.
	for _, list := range doc.Lists {
		created, err := s.lists.CreateList(ctx, userID, list.Name, list.Description)
		if err != nil {
			results.Lists.Errors++
			continue
		}
		results.Lists.Created++

		for _, ref := range list.Bookmarks {
			newBookmarkID, ok := bookmarkIDs[ref.ID]
			if !ok {
				continue
			}
			if err := s.lists.AddBookmark(ctx, userID, created.ID, newBookmarkID); err != nil {
				results.ListBookmarks.Errors++
				continue
			}
			results.ListBookmarks.Created++
		}
	}

	s.logger.Info("import finished",
		"user_id", userID,
		"labels", results.Labels,
		"bookmarks", results.Bookmarks,
		"lists", results.Lists,
	)
	return results, nil
}
