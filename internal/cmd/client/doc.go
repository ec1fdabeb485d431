// Package client provides the `analyticsd` command-line client.
//
// The CLI talks to the analytics HTTP API to submit events and inspect
// the pipeline from a terminal. It is primarily intended for developers
// and operators.
//
// Installation
//
//	go install github.com/Uttam1728/event-analytics/cmd/analyticsd@latest
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it
// defaults to http://127.0.0.1:8080 and can be overridden with the
// ANALYTICS_HTTP environment variable.
//
// Usage
//
//	analyticsd event send --user u123 --page /products/42
//	analyticsd event send --user u123 --timestamp 2024-01-15T14:05:00Z
//
//	analyticsd analytics views --minutes 5
//	analyticsd analytics bucket page_view_2024-01-15_14:05
//
//	analyticsd status
//	analyticsd files
package client
