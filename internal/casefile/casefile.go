// Package casefile reads and writes jpamb's "method;outcome" test-case
// fixtures as newline-delimited JSON: one `{"method":"...",
// "outcome":"..."}` object per line. `jpamb analyze --cases file.json`
// cross-checks a method's predicted outcome set against the case
// file's recorded expectation; `jpamb run --record file.json` appends
// a freshly observed outcome. Queries use `github.com/tidwall/gjson`;
// writes build each line with `github.com/tidwall/sjson`, one field
// set at a time rather than assembled through a struct and marshaled.
package casefile

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"jpamb/internal/concrete"
	"jpamb/internal/jvm"
)

// Case is one recorded method/outcome expectation.
type Case struct {
	Method  jvm.MethodID
	Outcome concrete.Outcome
}

// Read parses a case file, one JSON object per non-blank line.
func Read(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "casefile: opening %s", path)
	}
	defer f.Close()

	var cases []Case
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "casefile: %s:%d", path, lineNo)
		}
		cases = append(cases, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "casefile: reading %s", path)
	}
	return cases, nil
}

func parseLine(line string) (Case, error) {
	methodStr := gjson.Get(line, "method")
	if !methodStr.Exists() {
		return Case{}, errors.New("missing \"method\" field")
	}
	outcomeStr := gjson.Get(line, "outcome")
	if !outcomeStr.Exists() {
		return Case{}, errors.New("missing \"outcome\" field")
	}
	method, err := jvm.ParseMethodID(methodStr.String())
	if err != nil {
		return Case{}, errors.Wrap(err, "parsing method id")
	}
	return Case{Method: method, Outcome: concrete.Outcome(outcomeStr.String())}, nil
}

// Append records one observed outcome, creating the file if it does
// not exist.
func Append(path string, c Case) error {
	line, err := encodeLine(c)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "casefile: opening %s for append", path)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return errors.Wrapf(err, "casefile: writing %s", path)
	}
	return nil
}

func encodeLine(c Case) (string, error) {
	doc := "{}"
	doc, err := sjson.Set(doc, "method", c.Method.String())
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "outcome", string(c.Outcome))
	if err != nil {
		return "", err
	}
	return doc, nil
}

// Mismatch is one case file entry whose expectation disagreed with
// what the analyzer actually predicted.
type Mismatch struct {
	Method   jvm.MethodID
	Expected concrete.Outcome
	Got      []string
}

// CrossCheck compares each case's recorded expectation against the
// analyzer's predicted outcome set for that same method (predicted
// keyed by Method.Key()), returning one Mismatch per case whose
// expectation is absent from the prediction.
func CrossCheck(cases []Case, predicted map[string][]string) []Mismatch {
	var mismatches []Mismatch
	for _, c := range cases {
		outcomes := predicted[c.Method.Key()]
		ok := false
		for _, o := range outcomes {
			if concrete.Outcome(o) == c.Outcome {
				ok = true
				break
			}
		}
		if !ok {
			mismatches = append(mismatches, Mismatch{Method: c.Method, Expected: c.Outcome, Got: outcomes})
		}
	}
	return mismatches
}
