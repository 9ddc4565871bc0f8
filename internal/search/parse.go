// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/search-refiner/internal/logger"
	"github.com/pdiddy/search-refiner/pkg/types"
)

// resultElement is the name of a hit element. Hits may sit at any depth,
// e.g. ysearchresponse/resultset_web/result.
const resultElement = "result"

// Parser turns a raw XML response into ResultRecords.
type Parser struct {
	// Log receives warnings about skipped elements. Nil means logger.Log.
	Log logrus.FieldLogger
}

// xmlResult mirrors one <result>. Slices tell a missing element apart from
// an empty one; when an element repeats, the first occurrence is used.
type xmlResult struct {
	Title    []string `xml:"title"`
	URL      []string `xml:"url"`
	Abstract []string `xml:"abstract"`
}

// Parse returns the hits of raw in document order. Input that is not
// well-formed XML returns an error wrapping ErrMalformedResponse, including
// a document with more than one root element or with text outside the root.
// Empty input is a valid response with no hits.
//
// A <result> without a <title> or <url> element is skipped with a warning
// rather than failing the whole page. Titles and URLs are trimmed; the
// abstract is kept verbatim and becomes "" when the element is childless
// or missing.
func (p *Parser) Parse(raw string) ([]types.ResultRecord, error) {
	log := p.Log
	if log == nil {
		log = logger.Log
	}

	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity

	records := []types.ResultRecord{}
	index := 0
	depth := 0
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if !sawRoot && strings.TrimSpace(raw) != "" {
				return nil, fmt.Errorf("%w: no root element", ErrMalformedResponse)
			}
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}

		var start xml.StartElement
		switch t := tok.(type) {
		case xml.StartElement:
			start = t
		case xml.EndElement:
			depth--
			continue
		case xml.CharData:
			if depth == 0 && len(strings.TrimSpace(string(t))) > 0 {
				return nil, fmt.Errorf("%w: text outside the root element", ErrMalformedResponse)
			}
			continue
		default:
			continue
		}

		if depth == 0 {
			if sawRoot {
				return nil, fmt.Errorf("%w: second root element <%s>", ErrMalformedResponse, start.Name.Local)
			}
			sawRoot = true
		}
		if start.Name.Local != resultElement {
			depth++
			continue
		}

		var r xmlResult
		if err := dec.DecodeElement(&r, &start); err != nil {
			return nil, fmt.Errorf("%w: result %d: %w", ErrMalformedResponse, index, err)
		}

		rec, missing := r.record()
		if missing != "" {
			log.WithField("result", index).Warnf("skipping result without <%s>", missing)
		} else {
			records = append(records, rec)
		}
		index++
	}
}

// record converts r, or names the first required element it lacks.
func (r xmlResult) record() (types.ResultRecord, string) {
	if len(r.Title) == 0 {
		return types.ResultRecord{}, "title"
	}
	if len(r.URL) == 0 {
		return types.ResultRecord{}, "url"
	}
	rec := types.ResultRecord{
		Title: strings.TrimSpace(r.Title[0]),
		URL:   strings.TrimSpace(r.URL[0]),
	}
	if len(r.Abstract) > 0 {
		rec.Summary = r.Abstract[0]
	}
	return rec, ""
}
