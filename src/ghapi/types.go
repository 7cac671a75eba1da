package ghapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Repo is a repository returned by the search API.
type Repo struct {
	Name        string
	Description string
	URL         string
	Language    *string
	StarCount   int
}

// searchResult is the body of GET /search/repositories. Items are kept raw
// and validated one key at a time so a bad payload names the offending key.
type searchResult struct {
	TotalCount int                `json:"total_count"`
	Items      *[]json.RawMessage `json:"items"`
}

var errMissingItems = errors.New(`response has no "items" list`)

func (r searchResult) repos() ([]Repo, error) {
	if r.Items == nil {
		return nil, errMissingItems
	}

	repos := make([]Repo, 0, len(*r.Items))
	for i, raw := range *r.Items {
		repo, err := decodeRepo(raw)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}

		repos = append(repos, repo)
	}

	return repos, nil
}

func decodeRepo(raw json.RawMessage) (Repo, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Repo{}, fmt.Errorf("item is not an object")
	}

	var repo Repo
	if err := decodeField(fields, "name", false, &repo.Name); err != nil {
		return Repo{}, err
	}
	if err := decodeField(fields, "html_url", false, &repo.URL); err != nil {
		return Repo{}, err
	}
	if err := decodeField(fields, "description", true, &repo.Description); err != nil {
		return Repo{}, err
	}
	if err := decodeField(fields, "stargazers_count", false, &repo.StarCount); err != nil {
		return Repo{}, err
	}

	if _, ok := fields["language"]; ok {
		if err := decodeField(fields, "language", true, &repo.Language); err != nil {
			return Repo{}, err
		}
	}

	return repo, nil
}

// decodeField unmarshals fields[key] into dst. A missing key is always an
// error, a null value only when nullable is false.
func decodeField(fields map[string]json.RawMessage, key string, nullable bool, dst interface{}) error {
	raw, ok := fields[key]
	if !ok {
		return &FieldError{Key: key, Reason: "missing"}
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if nullable {
			return nil
		}
		return &FieldError{Key: key, Reason: "null"}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &FieldError{Key: key, Reason: "wrong type", Err: err}
	}

	return nil
}
