package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Resource is one REST collection endpoint such as /bookings
type Resource[T any] struct {
	client   *Client
	path     string
	key      string
	singular string
}

// NewResource binds a collection path. key is the envelope field holding
// the list ("bookings"); singular names one record ("booking").
func NewResource[T any](client *Client, path, key, singular string) *Resource[T] {
	return &Resource[T]{client: client, path: path, key: key, singular: singular}
}

// Path returns the collection path
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// List retrieves the whole collection
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	body, err := r.client.do(ctx, http.MethodGet, r.path, nil)
	if err != nil {
		return nil, err
	}
	return UnwrapList[T](body, r.key)
}

// Create posts a new record. When the response carries no record the zero
// value is returned without error.
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var created T

	body, err := r.client.do(ctx, http.MethodPost, r.path, payload)
	if err != nil {
		return created, err
	}

	raw, ok := UnwrapRecord(body, r.singular)
	if !ok {
		return created, nil
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		return created, fmt.Errorf("failed to decode response: %w", err)
	}
	return created, nil
}

// Update puts patch to the record and merges the returned fields onto
// current. The bool reports whether the response described the record.
func (r *Resource[T]) Update(ctx context.Context, id string, patch any, current T) (T, bool, error) {
	body, err := r.client.do(ctx, http.MethodPut, r.itemPath(id), patch)
	if err != nil {
		return current, false, r.notFound(err, id)
	}

	raw, ok := UnwrapRecord(body, r.singular)
	if !ok {
		return current, false, nil
	}
	merged, err := mergeRecord(current, raw)
	if err != nil {
		return current, false, err
	}
	return merged, true, nil
}

// Delete removes a record
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil)
	return r.notFound(err, id)
}

// DeleteRelated removes a sub-resource such as /properties/:id/images
func (r *Resource[T]) DeleteRelated(ctx context.Context, id, sub string) error {
	_, err := r.client.do(ctx, http.MethodDelete, r.itemPath(id)+"/"+sub, nil)
	return err
}

// notFound fills in a readable message for 404s without a body
func (r *Resource[T]) notFound(err error, id string) error {
	apiErr, ok := err.(*Error)
	if ok && apiErr.Kind == KindServer && apiErr.Status == http.StatusNotFound && apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("%s with ID %s not found", r.singular, id)
	}
	return err
}
