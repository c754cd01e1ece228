package telemetry

import (
	"context"
	"fmt"
	"path"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_http_request  = "http.request"
	report_http_response = "http.response"
	report_http_error    = "http.error"
)

type inflightKey struct{}

type inflight struct {
	id    uint64
	start time.Time
}

type restyHooks struct {
	tel      API
	tracer   trace.Tracer
	requests metric.Int64Counter
	nextId   *atomic.Uint64
}

// InstrumentResty wraps every request the client makes in a span of the named tracer,
// counts it by endpoint and status and reports it to tel at debug level. Transport
// failures are reported as warnings.
func InstrumentResty(client *resty.Client, tracerName string, tel API) {
	requests, err := otel.Meter(tracerName).Int64Counter(
		"http.client.requests",
		metric.WithDescription("Requests sent, by endpoint and status code."),
	)
	if err != nil {
		tel.ReportBroken(report_http_request, fmt.Errorf("create counter: %w", err))
		requests = noop.Int64Counter{}
	}

	hooks := restyHooks{
		tel:      tel,
		tracer:   otel.Tracer(tracerName),
		requests: requests,
		nextId:   &atomic.Uint64{},
	}
	client.OnBeforeRequest(hooks.before)
	client.OnAfterResponse(hooks.after)
	client.OnError(hooks.failed)
}

// endpoint is the last path segment of the request url, ex. `getClassDetails`.
func endpoint(req *resty.Request) string {
	if req.RawRequest != nil {
		return path.Base(req.RawRequest.URL.Path)
	}
	return path.Base(req.URL)
}

func (h restyHooks) before(_ *resty.Client, req *resty.Request) error {
	ctx, _ := h.tracer.Start(req.Context(), req.Method)
	info := inflight{id: h.nextId.Add(1), start: time.Now()}
	req.SetContext(context.WithValue(ctx, inflightKey{}, info))

	h.tel.ReportDebug(report_http_request, info.id, req.Method, req.URL)
	return nil
}

func (h restyHooks) after(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// RawRequest only exists once the request was sent
	span.SetName(fmt.Sprintf("http %s %s", res.Request.Method, endpoint(res.Request)))
	if res.Request.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	}
	if res.RawResponse != nil {
		span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
	}

	h.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint(res.Request)),
		attribute.Int("status", res.StatusCode()),
	))

	info, ok := ctx.Value(inflightKey{}).(inflight)
	if ok {
		h.tel.ReportDebug(report_http_response, info.id, time.Since(info.start).String(), res.Status())
	}
	return nil
}

func (h restyHooks) failed(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetName(fmt.Sprintf("http %s %s", req.Method, endpoint(req)))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	h.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint(req)),
		attribute.Int("status", 0),
	))

	var elapsed time.Duration
	info, ok := ctx.Value(inflightKey{}).(inflight)
	if ok {
		elapsed = time.Since(info.start)
	}
	h.tel.ReportWarning(report_http_error, err, req.Method, req.URL, elapsed)
}
