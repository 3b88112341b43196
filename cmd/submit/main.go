package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"idea-inbox/internal/common/enum"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/logger"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var errPair = errors.New("expected key=value")

// pairs collects repeated key=value flags in the order given.
type pairs [][2]string

func (p *pairs) String() string {
	parts := make([]string, 0, len(*p))
	for _, kv := range *p {
		parts = append(parts, kv[0]+"="+kv[1])
	}
	return strings.Join(parts, ",")
}

func (p *pairs) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w, got %q", errPair, value)
	}
	*p = append(*p, [2]string{key, val})
	return nil
}

// submit sends one idea to a running inbox, e.g.
//
//	submit -url http://localhost:8080/submit -field name=Ann -field ideaName=Widget -file attachment=./sketch.png
func main() {
	var fields, files pairs
	url := flag.String("url", "http://localhost:8080/submit", "submission endpoint")
	key := flag.String("idempotency-key", "", "Idempotency-Key header; \"auto\" generates one")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Var(&fields, "field", "form field as name=value (repeatable)")
	flag.Var(&files, "file", "attachment as field=path (repeatable)")
	flag.Parse()

	body, err := buildForm(fields, files)
	if err != nil {
		logger.Error.WithError(err).Println("failed to build form")
		os.Exit(1)
	}

	config := &helper.HTTPRequestConfig{Ctx: context.Background(), Timeout: *timeout}
	if k := idempotencyKey(*key); k != "" {
		config.Headers = map[string][]string{"Idempotency-Key": {k}}
	}

	resp, err := helper.HTTPRequest(&helper.HTTPRequestPayload{
		Method: enum.POST,
		URL:    *url,
		Body:   body,
	}, config)
	if err != nil {
		logger.Error.WithError(err).Println("request failed")
		os.Exit(1)
	}

	fmt.Printf("%d %v\n", resp.StatusCode, resp.Data)
	if resp.StatusCode != 200 {
		os.Exit(1)
	}
}

func idempotencyKey(flagValue string) string {
	if flagValue == "auto" {
		return uuid.NewString()
	}
	return flagValue
}

// buildForm reads every attachment from disk and sniffs its content type.
func buildForm(fields, files pairs) (*_type.FormBody, error) {
	body := &_type.FormBody{}
	for _, kv := range fields {
		body.Fields = append(body.Fields, _type.FormField{Name: kv[0], Value: kv[1]})
	}

	for _, kv := range files {
		content, err := os.ReadFile(kv[1])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", kv[1], err)
		}
		body.Files = append(body.Files, _type.BufferedFile{
			FieldName:    kv[0],
			OriginalName: filepath.Base(kv[1]),
			MimeType:     mimetype.Detect(content).String(),
			Buffer:       content,
		})
	}
	return body, nil
}
