package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fwojciec/scrape"
	"gopkg.in/yaml.v3"
)

// Job is a reusable scrape description loaded from YAML:
//
//	urls:
//	  - https://quotes.toscrape.com/page/1/
//	container: div.quote
//	selectors:
//	  quote: span.text
//	  author: small.author
//	  link: {query: a, attr: href}
//	delay: 2s
//	output: quotes.json
type Job struct {
	URLs      []string       `yaml:"urls"`
	Container string         `yaml:"container"`
	Selectors JobSelectors   `yaml:"selectors"`
	Delay     *time.Duration `yaml:"delay"`
	Output    string         `yaml:"output"`
}

// JobSelectors decodes either a mapping of field to query (or to a
// {query, attr} mapping) or a list of "field=query[@attr]" strings.
// Mapping order is kept.
type JobSelectors scrape.SelectorMap

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *JobSelectors) UnmarshalYAML(node *yaml.Node) error {
	var m scrape.SelectorMap
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			sel := scrape.Selector{Field: key.Value}
			switch value.Kind {
			case yaml.ScalarNode:
				sel.Query = value.Value
			case yaml.MappingNode:
				var v struct {
					Query string `yaml:"query"`
					Attr  string `yaml:"attr"`
				}
				if err := value.Decode(&v); err != nil {
					return err
				}
				sel.Query, sel.Attr = v.Query, v.Attr
			default:
				return fmt.Errorf("line %d: selector %q must be a query or a {query, attr} mapping", value.Line, key.Value)
			}
			m = append(m, sel)
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			sel, err := scrape.ParseSelector(item.Value)
			if err != nil {
				return fmt.Errorf("line %d: %s", item.Line, scrape.ErrorMessage(err))
			}
			m = append(m, sel)
		}
	default:
		return fmt.Errorf("line %d: selectors must be a mapping or a list", node.Line)
	}
	*s = JobSelectors(m)
	return nil
}

// LoadJob reads a job file. Unknown keys are rejected.
func LoadJob(path string) (*Job, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, scrape.Errorf(scrape.ENOTFOUND, "job file %s not found", path)
	} else if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var job Job
	if err := dec.Decode(&job); errors.Is(err, io.EOF) {
		return nil, scrape.Errorf(scrape.EINVALID, "job file %s is empty", path)
	} else if err != nil {
		return nil, scrape.Errorf(scrape.EINVALID, "job file %s: %v", path, err)
	}
	return &job, nil
}

// Merge returns a copy of j with every non-zero value of override
// taking precedence.
func (j *Job) Merge(override *Job) *Job {
	out := *j
	if len(override.URLs) > 0 {
		out.URLs = override.URLs
	}
	if override.Container != "" {
		out.Container = override.Container
	}
	if len(override.Selectors) > 0 {
		out.Selectors = override.Selectors
	}
	if override.Delay != nil {
		out.Delay = override.Delay
	}
	if override.Output != "" {
		out.Output = override.Output
	}
	return &out
}

// resolveJob builds the job described by command-line values, layered
// over the job file at path when one is given. The selectors of the
// result are validated.
func resolveJob(path string, flags *Job, selects []string) (*Job, error) {
	if len(selects) > 0 {
		m, err := scrape.ParseSelectorMap(selects)
		if err != nil {
			return nil, err
		}
		flags.Selectors = JobSelectors(m)
	}

	job := flags
	if path != "" {
		base, err := LoadJob(path)
		if err != nil {
			return nil, err
		}
		job = base.Merge(flags)
	}

	if err := scrape.SelectorMap(job.Selectors).Validate(); err != nil {
		return nil, err
	}
	return job, nil
}
