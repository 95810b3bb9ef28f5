// Package http provides HTTP handlers and middleware for the back-office API.
//
// Every API route is tenant scoped: requests authenticate with the
// `X-API-Key` header ("slug.secret") and the resolved tenant travels on the
// request context. The router exposes the following endpoints:
//   - GET /calendar?year&month[&branch_id][&status]: the merged month
//     timeline, generated sessions plus exception records.
//   - POST /calendar/cancellations, POST /calendar/restorations,
//     POST /calendar/events: session-level overrides exchanging the
//     `sessionActionRequest` payload defined in calendar_handler.go.
//   - GET /attendance?date, PUT /attendance, DELETE /attendance,
//     PUT /attendance/substitutes, DELETE /attendance/substitutes,
//     GET /attendance/payroll?year&month: the daily attendance sheet and its
//     records, defined in attendance_handler.go.
//   - POST /subscriptions, GET /subscriptions?player_id,
//     POST /subscriptions/{id}/extensions, GET /subscriptions/{id}/usage,
//     PUT /players/{id}/pause: subscription management endpoints exchanging
//     the `subscriptionDTO` payload defined in subscription_handler.go.
//   - GET /reports/schedule, GET /reports/payroll, GET /reports/ledger
//     (?year&month): xlsx workbook downloads.
//   - GET /health and GET /metrics stay outside tenant authentication.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
