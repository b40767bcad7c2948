package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/swaggo/swag"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driving"
	"github.com/custodia-labs/payroll-check/internal/obs"
)

// User facing messages.
const (
	msgPeriodRequired = "年と月を指定してください。"
	msgPeriodInvalid  = "年と月の形式が正しくありません。"
	msgNoCredential   = "アクセストークンが利用できません。まず /auth からfreee認証を行ってください。"
	msgReauthorize    = "freeeの認証が無効です。/auth から再度認証してください。"
	msgUpstreamFailed = "給与明細取得に失敗しました"
	msgUnexpected     = "予期せぬエラーが発生しました。"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"internal server error"`
}

// CheckErrorResponse is the /check failure shape: always an errors array.
// @Description Payroll check failure
type CheckErrorResponse struct {
	Errors []CheckErrorItem `json:"errors"`
}

// CheckErrorItem is one failure message.
type CheckErrorItem struct {
	Message string `json:"message" example:"年と月を指定してください。"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse reports backend reachability.
// @Description Readiness status per backend
type ReadyResponse struct {
	Status   string            `json:"status" example:"ready"`
	Backends map[string]string `json:"backends,omitempty"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings the state and credential backends
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{Status: "ready", Backends: make(map[string]string, len(s.backends))}
	status := http.StatusOK

	for name, p := range s.backends {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.Warn("readiness check failed", "backend", name, "error", err)
			resp.Backends[name] = "unavailable"
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Backends[name] = "ok"
	}
	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "api document not registered")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// Authorization flow

// handleAuth godoc
// @Summary      Start freee authorization
// @Description  Issues a single-use state and redirects to the freee consent page
// @Tags         Authorization
// @Success      302
// @Failure      429  {object}  ErrorResponse  "Rate limit exceeded"
// @Failure      500  {object}  ErrorResponse  "State could not be issued"
// @Router       /auth [get]
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	resp, err := s.oauthService.Start(r.Context())
	if err != nil {
		s.logger.Error("failed to start authorization", "error", err, "request_id", GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to start authorization")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, resp.AuthorizationURL, http.StatusFound)
}

// handleCallback godoc
// @Summary      freee authorization callback
// @Description  Validates the state, exchanges the code and stores the credential
// @Tags         Authorization
// @Produce      html
// @Param        code   query  string  false  "Authorization code"
// @Param        state  query  string  false  "State issued by /auth"
// @Success      200
// @Failure      400  "Missing authorization code"
// @Failure      403  "Unknown, expired or replayed state"
// @Failure      502  "freee rejected the code or client credentials"
// @Failure      504  "freee unreachable"
// @Router       /callback [get]
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.oauthService.Callback(r.Context(), driving.CallbackRequest{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	})
	if err != nil {
		status, page := callbackFailure(err)
		obs.AuthorizationOutcomes.WithLabelValues(callbackOutcome(status)).Inc()
		if status == http.StatusInternalServerError {
			s.logger.Error("authorization callback failed", "error", err, "request_id", GetRequestID(r.Context()))
		}
		renderPage(w, status, page)
		return
	}

	obs.AuthorizationOutcomes.WithLabelValues("ok").Inc()
	renderPage(w, http.StatusOK, pageData{
		Title:    "freee認証成功！",
		Message:  "freee APIへのアクセス準備ができました。",
		Detail:   resp.Scope,
		Link:     "/",
		LinkText: "給与明細チェックページに戻る",
	})
}

func callbackFailure(err error) (int, pageData) {
	restart := pageData{Link: "/auth", LinkText: "認証をやり直す"}

	var authErr *domain.UpstreamAuthError
	var netErr *domain.NetworkError
	switch {
	case errors.Is(err, domain.ErrMissingCode):
		restart.Title = "認可コードが提供されていません。"
		return http.StatusBadRequest, restart
	case errors.Is(err, domain.ErrCSRF):
		restart.Title = "不正なリクエストです。"
		restart.Message = "認証リクエストが無効か期限切れです。"
		return http.StatusForbidden, restart
	case errors.As(err, &authErr):
		restart.Title = "アクセストークン取得失敗"
		restart.Message = "freeeが認証を拒否しました。最初から認証をやり直してください。"
		restart.Detail = authErr.Error()
		return http.StatusBadGateway, restart
	case errors.As(err, &netErr):
		restart.Title = "アクセストークン取得失敗"
		restart.Message = "freeeに接続できませんでした。しばらくしてから認証をやり直してください。"
		return http.StatusGatewayTimeout, restart
	default:
		restart.Title = "アクセストークン取得失敗"
		restart.Message = "エラーが発生しました。詳細をサーバーログで確認してください。"
		return http.StatusInternalServerError, restart
	}
}

func callbackOutcome(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "missing_code"
	case http.StatusForbidden:
		return "csrf"
	case http.StatusBadGateway:
		return "upstream_auth"
	case http.StatusGatewayTimeout:
		return "network"
	default:
		return "error"
	}
}

// Payroll check

// handleCheck godoc
// @Summary      Check payroll statements
// @Description  Fetches the statements of a month from freee and reports rule violations
// @Tags         Payroll
// @Produce      json
// @Security     BearerAuth
// @Param        year   query     int  true  "Target year"  example(2024)
// @Param        month  query     int  true  "Target month"  example(4)
// @Success      200    {object}  driving.CheckResult
// @Failure      400    {object}  CheckErrorResponse  "Missing or invalid year/month"
// @Failure      401    {object}  CheckErrorResponse  "Missing or invalid operator token"
// @Failure      500    {object}  CheckErrorResponse  "Authorization required or upstream failure"
// @Router       /check [get]
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, month := strings.TrimSpace(q.Get("year")), strings.TrimSpace(q.Get("month"))
	if year == "" || month == "" {
		writeCheckError(w, http.StatusBadRequest, msgPeriodRequired)
		return
	}

	period, err := domain.ParsePeriod(year, month)
	if err != nil {
		writeCheckError(w, http.StatusBadRequest, msgPeriodInvalid)
		return
	}

	result, err := s.checkService.Check(r.Context(), period)
	if err != nil {
		s.logger.Error("payroll check failed",
			"period", period.Key(),
			"error", err,
			"retryable", domain.IsRetryable(err),
			"request_id", GetRequestID(r.Context()))
		writeCheckError(w, http.StatusInternalServerError, checkFailureMessage(err))
		return
	}

	for _, e := range result.Errors {
		obs.ValidationFindings.WithLabelValues(e.Item).Inc()
	}
	writeJSON(w, http.StatusOK, result)
}

// checkFailureMessage maps a check failure to the message shown to the user.
// Upstream details are kept so contract drift is visible.
func checkFailureMessage(err error) string {
	var authErr *domain.UpstreamAuthError
	var netErr *domain.NetworkError
	var dataErr *domain.UpstreamDataError
	switch {
	case errors.Is(err, domain.ErrNoCredential):
		return msgNoCredential
	case errors.As(err, &authErr):
		return msgReauthorize + " (" + authErr.Error() + ")"
	case errors.As(err, &netErr):
		return msgUpstreamFailed + ": " + netErr.Error()
	case errors.As(err, &dataErr):
		return msgUpstreamFailed + ": " + dataErr.Error()
	default:
		return msgUnexpected
	}
}

// Helpers

type pageData struct {
	Title    string
	Message  string
	Detail   string
	Link     string
	LinkText string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Message}}<p>{{.Message}}</p>{{end}}
{{if .Detail}}<pre>{{.Detail}}</pre>{{end}}
{{if .Link}}<p><a href="{{.Link}}">{{.LinkText}}</a></p>{{end}}
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = pageTmpl.Execute(w, data)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeCheckError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, CheckErrorResponse{Errors: []CheckErrorItem{{Message: message}}})
}
