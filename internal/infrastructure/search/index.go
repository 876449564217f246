// Package search mirrors users and groups into Elasticsearch for full-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
)

const (
	defaultSize = 10
	maxSize     = 50
)

const usersMapping = `{"mappings":{"properties":{
	"id":{"type":"keyword"},
	"email":{"type":"text","fields":{"raw":{"type":"keyword"}}},
	"name":{"type":"text"},
	"image_ref":{"type":"keyword","index":false},
	"created_at":{"type":"date"},
	"updated_at":{"type":"date"}}}}`

const groupsMapping = `{"mappings":{"properties":{
	"id":{"type":"keyword"},
	"name":{"type":"text"},
	"description":{"type":"text"},
	"admin_id":{"type":"keyword"},
	"image_ref":{"type":"keyword","index":false},
	"created_at":{"type":"date"},
	"updated_at":{"type":"date"}}}}`

type Index struct {
	es          *elasticsearch.Client
	usersIndex  string
	groupsIndex string
	timeout     time.Duration
}

func NewIndex(es *elasticsearch.Client, usersIndex, groupsIndex string) *Index {
	return &Index{es: es, usersIndex: usersIndex, groupsIndex: groupsIndex, timeout: 3 * time.Second}
}

// EnsureIndices creates both indices with their mappings if they are missing
func (x *Index) EnsureIndices(ctx context.Context) error {
	if err := helpers.EnsureIndex(ctx, x.es, x.usersIndex, usersMapping); err != nil {
		return err
	}
	return helpers.EnsureIndex(ctx, x.es, x.groupsIndex, groupsMapping)
}

func userDoc(u *entity.User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"image_ref":  u.ImageRef,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func groupDoc(g *entity.Group) map[string]any {
	return map[string]any{
		"id":          g.ID,
		"name":        g.Name,
		"description": g.Description,
		"admin_id":    g.AdminID,
		"image_ref":   g.ImageRef,
		"created_at":  g.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  g.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (x *Index) put(ctx context.Context, index, id string, doc map[string]any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()
	req := esapi.IndexRequest{Index: index, DocumentID: id, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index %s/%s: %s", index, id, res.Status())
	}
	return nil
}

func (x *Index) IndexUser(ctx context.Context, u *entity.User) error {
	return x.put(ctx, x.usersIndex, u.ID, userDoc(u))
}

func (x *Index) IndexGroup(ctx context.Context, g *entity.Group) error {
	return x.put(ctx, x.groupsIndex, g.ID, groupDoc(g))
}

func (x *Index) DeleteUser(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: x.usersIndex, DocumentID: id}.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete %s/%s: %s", x.usersIndex, id, res.Status())
	}
	return nil
}

// SearchUsers runs a multi_match on email and name
func (x *Index) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return x.search(ctx, x.usersIndex, q, []string{"email^2", "name"}, size)
}

func (x *Index) SearchGroups(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return x.search(ctx, x.groupsIndex, q, []string{"name^2", "description"}, size)
}

func (x *Index) search(ctx context.Context, index, q string, fields []string, size int) ([]map[string]any, error) {
	if size <= 0 || size > maxSize {
		size = defaultSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": fields,
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", index, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
