package helper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"idea-inbox/internal/common/enum"
	_type "idea-inbox/internal/common/type"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

type HTTPAPIResponse struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
	Data       interface{} `json:"data"`
}

type HTTPRequestPayload struct {
	Method enum.HTTPMethodEnum
	URL    string
	Body   interface{}
}

type HTTPRequestConfig struct {
	Ctx     context.Context
	Headers http.Header
	Timeout time.Duration
}

func HTTPRequest(payload *HTTPRequestPayload, config *HTTPRequestConfig) (*HTTPAPIResponse, error) {
	if config.Headers == nil {
		config.Headers = http.Header{}
	}
	if config.Ctx == nil {
		config.Ctx = context.Background()
	}

	requestBody, err := handleRequestBody(payload, config)
	if err != nil {
		return nil, err
	}

	req, client, err := prepareRequest(payload, requestBody, config)
	if err != nil {
		return nil, err
	}
	return executeRequest(req, client)
}

func handleRequestBody(payload *HTTPRequestPayload, config *HTTPRequestConfig) (io.Reader, error) {
	if payload.Method == enum.GET || payload.Body == nil {
		return nil, nil
	}

	switch body := payload.Body.(type) {
	case *_type.FormBody:
		reader, contentType, err := createMultipartBody(body)
		if err != nil {
			return nil, err
		}
		config.Headers.Set("Content-Type", contentType)
		return reader, nil
	default:
		config.Headers.Set("Content-Type", enum.ApplicationJSON.ToString())
		return createJSONBody(body)
	}
}

func prepareRequest(payload *HTTPRequestPayload, body io.Reader, config *HTTPRequestConfig) (*http.Request, *http.Client, error) {
	req, err := http.NewRequestWithContext(config.Ctx, payload.Method.ToString(), payload.URL, body)
	if err != nil {
		return nil, nil, err
	}

	for key, values := range config.Headers {
		req.Header[key] = append(req.Header[key], values...)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = time.Minute
	}
	return req, &http.Client{Timeout: timeout}, nil
}

func executeRequest(req *http.Request, client *http.Client) (*HTTPAPIResponse, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result, err := parseResponseBody(resp)
	if err != nil {
		return nil, err
	}

	return &HTTPAPIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Data:       result,
	}, nil
}

func parseResponseBody(resp *http.Response) (interface{}, error) {
	contentType := resp.Header.Get("Content-Type")
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.Contains(contentType, enum.ApplicationJSON.ToString()):
		var result interface{}
		if err := json.Unmarshal(responseBody, &result); err != nil {
			return nil, err
		}
		return result, nil
	case strings.HasPrefix(contentType, "text/"):
		return string(responseBody), nil
	default:
		return responseBody, nil
	}
}

func createJSONBody(body interface{}) (io.Reader, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(jsonData), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func createMultipartBody(body *_type.FormBody) (io.Reader, string, error) {
	if body == nil {
		return nil, "", errors.New("multipart body is nil")
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, field := range body.Fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", err
		}
	}

	for _, file := range body.Files {
		mimeType := file.MimeType
		if mimeType == "" {
			mimeType = enum.OctetStream.ToString()
		}
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Disposition": []string{fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				quoteEscaper.Replace(file.FieldName), quoteEscaper.Replace(file.OriginalName))},
			"Content-Type": []string{mimeType},
		})
		if err != nil {
			return nil, "", err
		}
		if _, err = part.Write(file.Buffer); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
