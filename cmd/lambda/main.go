// Package main provides the Lambda handler for the comparison API.
// This is the entry point for AWS Lambda Function URL deployment.
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/vps-compare/internal/config"
	"github.com/vps-compare/internal/controller"
	"github.com/vps-compare/internal/dataset"
	"github.com/vps-compare/internal/domain"
	"github.com/vps-compare/internal/provider"
	"github.com/vps-compare/internal/web"
)

var handler http.Handler

func init() {
	cfg := config.Get()

	catalog, err := dataset.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load plan catalog: %v\n", err)
		os.Exit(1)
	}

	mockSrc, err := provider.ForSource(domain.MockSource, catalog, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build plan source: %v\n", err)
		os.Exit(1)
	}

	server := web.NewServer(controller.New(mockSrc, cfg), cfg)
	if realSrc, err := provider.ForSource(domain.RealSource, catalog, cfg); err == nil {
		server.RegisterSource(controller.New(realSrc, cfg))
	}

	handler = server.Handler()
}

// bufferedResponse captures a handler's output for the Function URL reply
type bufferedResponse struct {
	status  int
	headers http.Header
	body    bytes.Buffer
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{status: http.StatusOK, headers: make(http.Header)}
}

func (b *bufferedResponse) Header() http.Header { return b.headers }

func (b *bufferedResponse) WriteHeader(status int) { b.status = status }

func (b *bufferedResponse) Write(p []byte) (int, error) { return b.body.Write(p) }

// Handler processes Lambda Function URL requests by replaying them through
// the regular HTTP handler.
func Handler(ctx context.Context, request events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	path := request.RawPath
	if path == "" {
		path = "/"
	}
	if request.RawQueryString != "" {
		path += "?" + request.RawQueryString
	}
	method := request.RequestContext.HTTP.Method

	// Log request (goes to CloudWatch)
	fmt.Printf("[%s] %s %s\n", time.Now().Format(time.RFC3339), method, path)

	body := request.Body
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return events.LambdaFunctionURLResponse{StatusCode: http.StatusBadRequest}, nil
		}
		body = string(decoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, path, strings.NewReader(body))
	if err != nil {
		return events.LambdaFunctionURLResponse{StatusCode: http.StatusBadRequest}, nil
	}
	for k, v := range request.Headers {
		req.Header.Set(k, v)
	}
	if ip := request.RequestContext.HTTP.SourceIP; ip != "" {
		req.RemoteAddr = ip + ":0"
	}

	resp := newBufferedResponse()
	handler.ServeHTTP(resp, req)

	headers := make(map[string]string, len(resp.headers))
	for k := range resp.headers {
		headers[k] = resp.headers.Get(k)
	}

	return events.LambdaFunctionURLResponse{
		StatusCode: resp.status,
		Headers:    headers,
		Body:       resp.body.String(),
	}, nil
}

func main() {
	lambda.Start(Handler)
}
