/*
Package tracing provides lightweight request tracing for the session API.

# Overview

Each HTTP request gets a trace with a single server span; clients that
send X-Trace-ID and X-Span-ID headers continue an existing trace across
process boundaries. Completed spans are logged through zap.

# Usage

	tracer := tracing.New("browser-backend", logger)
	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual span creation
	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

# Trace Format

Traces use standard HTTP headers for propagation:
  - X-Trace-ID: Unique identifier for the entire request flow
  - X-Span-ID: Identifier for the current operation

Span collection is buffered (1000 spans) and processed asynchronously,
so tracing never blocks a request.
*/
package tracing
