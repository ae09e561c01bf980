// Package vectorstore is the HTTP client for the external embedding and
// retrieval service that consumes the chunk stream. Embedding and
// nearest-neighbor search themselves live behind this interface.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/RioCoderBrazil/MetaSynthesizer/internal/chunker"
)

// Client communicates with the vector-index HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	stats      *IndexStats
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		stats: NewIndexStats(time.Hour),
	}
}

// ChunkBatch is the body for POST /index/chunks. Chunks arrive in chunk_id
// order; the service embeds and indexes them preserving that order.
type ChunkBatch struct {
	DocID       string          `json:"doc_id"`
	BatchID     string          `json:"batch_id"`
	Filename    string          `json:"filename,omitempty"`
	ContentHash string          `json:"content_hash,omitempty"`
	Chunks      []chunker.Chunk `json:"chunks"`
}

// DocumentInfo describes one indexed document.
type DocumentInfo struct {
	DocID       string `json:"doc_id"`
	Filename    string `json:"filename,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
	Chunks      int    `json:"chunks"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// PutChunks posts a chunk batch for embedding and indexing. 429 and 5xx
// responses come back as RetryableError so the caller can apply its retry
// policy.
func (c *Client) PutChunks(ctx context.Context, batch ChunkBatch) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal chunk batch: %w", err)
	}

	start := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/index/chunks", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put chunks: %w", err)
	}
	defer resp.Body.Close()
	c.stats.Record(time.Since(start).Milliseconds())

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put chunks for %s: status %d: %s", batch.DocID, resp.StatusCode, string(respBody))
	}
	return nil
}

// ListDocuments returns the indexed documents, optionally filtered by
// content hash (used for ingest dedup).
func (c *Client) ListDocuments(ctx context.Context, contentHash string) ([]DocumentInfo, error) {
	u := c.baseURL + "/index/documents"
	if contentHash != "" {
		u += "?content_hash=" + url.QueryEscape(contentHash)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("list documents: status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Documents []DocumentInfo `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return result.Documents, nil
}

// FindByHash returns the indexed document with the given content hash, or
// nil when none exists.
func (c *Client) FindByHash(ctx context.Context, contentHash string) (*DocumentInfo, error) {
	docs, err := c.ListDocuments(ctx, contentHash)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

// DeleteDocument removes a document and all its chunks from the index.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/index/documents/"+url.PathEscape(docID), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delete document %s: status %d: %s", docID, resp.StatusCode, string(respBody))
	}
	return nil
}

// Stats returns the client's rolling index-call latency tracker.
func (c *Client) Stats() *IndexStats {
	return c.stats
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient indexing failure worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
