package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/jobsearch"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

// indexMapping stores text fields as the wildcard type so substring queries
// see whole values of any length, like ILIKE in the relational store.
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "long"},
      "title":        {"type": "wildcard"},
      "description":  {"type": "wildcard"},
      "location":     {"type": "wildcard"},
      "salary_min":   {"type": "long"},
      "salary_max":   {"type": "long"},
      "posted_by":    {"type": "long"},
      "poster_name":  {"type": "keyword"},
      "poster_email": {"type": "keyword"},
      "created_at":   {"type": "date"}
    }
  }
}`

// JobIndex mirrors jobs into an Elasticsearch index and serves searches from it.
type JobIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewJobIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *JobIndex {
	return &JobIndex{ES: es, Index: index, Logger: logger}
}

type jobDoc struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    *string   `json:"location,omitempty"`
	SalaryMin   *int64    `json:"salary_min,omitempty"`
	SalaryMax   *int64    `json:"salary_max,omitempty"`
	PostedBy    int64     `json:"posted_by"`
	PosterName  *string   `json:"poster_name,omitempty"`
	PosterEmail string    `json:"poster_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDoc(j entity.Job) jobDoc {
	d := jobDoc{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		PostedBy:    j.PostedBy,
		CreatedAt:   j.CreatedAt,
	}
	if j.Poster != nil {
		d.PosterName = j.Poster.Name
		d.PosterEmail = j.Poster.Email
	}
	return d
}

func (d jobDoc) job() entity.Job {
	return entity.Job{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		SalaryMin:   d.SalaryMin,
		SalaryMax:   d.SalaryMax,
		PostedBy:    d.PostedBy,
		CreatedAt:   d.CreatedAt,
		Poster:      &entity.Poster{ID: d.PostedBy, Name: d.PosterName, Email: d.PosterEmail},
	}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (x *JobIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.ES.Indices.Exists([]string{x.Index}, x.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	res, err = x.ES.Indices.Create(x.Index,
		x.ES.Indices.Create.WithContext(ctx),
		x.ES.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

func (x *JobIndex) IndexJob(ctx context.Context, j entity.Job) error {
	b, err := json.Marshal(toDoc(j))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Index,
		DocumentID: strconv.FormatInt(j.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "wait_for",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("index job", res)
	}
	return nil
}

func (x *JobIndex) DeleteJob(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: strconv.FormatInt(id, 10), Refresh: "wait_for"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete job", res)
	}
	return nil
}

func (x *JobIndex) Search(ctx context.Context, q jobsearch.Query) ([]entity.Job, int64, error) {
	body, err := searchBody(q)
	if err != nil {
		return nil, 0, err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, 0, responseError("search jobs", res)
	}
	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) ([]entity.Job, int64, error) {
	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source jobDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}
	jobs := make([]entity.Job, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		jobs = append(jobs, h.Source.job())
	}
	return jobs, parsed.Hits.Total.Value, nil
}

// Reindex streams every job from src into the index with bulk requests of
// batch documents. It returns the number of jobs indexed.
func (x *JobIndex) Reindex(ctx context.Context, src repository.JobRepository, batch int) (int, error) {
	if batch <= 0 {
		batch = 500
	}
	if err := x.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	pending, total := 0, 0
	flush := func() error {
		if pending == 0 {
			return nil
		}
		res, err := x.ES.Bulk(bytes.NewReader(buf.Bytes()),
			x.ES.Bulk.WithContext(ctx),
			x.ES.Bulk.WithIndex(x.Index),
			x.ES.Bulk.WithRefresh("wait_for"),
		)
		if err != nil {
			return err
		}
		defer func() { _ = res.Body.Close() }()
		if res.IsError() {
			return responseError("bulk index", res)
		}
		var out struct {
			Errors bool `json:"errors"`
		}
		if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
			return err
		}
		if out.Errors {
			return fmt.Errorf("bulk index: some documents failed")
		}
		total += pending
		if x.Logger != nil {
			x.Logger.WithField("indexed", total).Info("bulk batch indexed")
		}
		buf.Reset()
		pending = 0
		return nil
	}

	err := src.All(ctx, func(j entity.Job) error {
		if err := writeBulkItem(&buf, j); err != nil {
			return err
		}
		pending++
		if pending >= batch {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, err
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

func writeBulkItem(buf *bytes.Buffer, j entity.Job) error {
	meta := map[string]any{"index": map[string]any{"_id": strconv.FormatInt(j.ID, 10)}}
	enc := json.NewEncoder(buf)
	if err := enc.Encode(meta); err != nil {
		return err
	}
	return enc.Encode(toDoc(j))
}

func responseError(op string, res *esapi.Response) error {
	b, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("%s: %s: %s", op, res.Status(), strings.TrimSpace(string(b)))
}

var _ repository.JobSearcher = (*JobIndex)(nil)
