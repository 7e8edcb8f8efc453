package clienttest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type claimsKey struct{}

type tokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (b *Backend) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			message(w, http.StatusUnauthorized, "Token required")
			return
		}
		claims := &tokenClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return b.Secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			message(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, _ := r.Context().Value(claimsKey{}).(*tokenClaims)
		if c == nil || c.Role != "admin" {
			message(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pageParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage < 1 {
		perPage = 10
	}
	return page, perPage
}

func paginate[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}

func pages(total, perPage int) int {
	return (total + perPage - 1) / perPage
}

func (b *Backend) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "API is healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (b *Backend) authResponse(w http.ResponseWriter, status int, u *user, msg string) {
	tok, err := b.sign(u.ID, u.Username, u.Role, time.Now().Add(24*time.Hour))
	if err != nil {
		message(w, http.StatusInternalServerError, "%v", err)
		return
	}
	WriteJSON(w, status, map[string]any{
		"access_token": tok,
		"user":         map[string]any{"id": u.ID, "username": u.Username, "role": u.Role},
		"message":      msg,
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &in); err != nil || in.Username == "" || in.Password == "" {
		message(w, http.StatusBadRequest, "Username and password required")
		return
	}

	b.mu.Lock()
	u := b.findUser(in.Username)
	b.mu.Unlock()

	if u == nil || u.Password != in.Password || !u.Active {
		message(w, http.StatusUnauthorized, "Invalid credentials or account disabled")
		return
	}
	b.authResponse(w, http.StatusOK, u, "Login successful")
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := decodeBody(r, &in); err != nil || in.Username == "" || in.Password == "" {
		message(w, http.StatusBadRequest, "Username and password required")
		return
	}

	b.mu.Lock()
	if b.findUser(in.Username) != nil {
		b.mu.Unlock()
		message(w, http.StatusBadRequest, "Username already exists")
		return
	}
	u := b.addUser(in.Username, in.Password, in.Email, "user")
	b.mu.Unlock()

	b.authResponse(w, http.StatusCreated, u, "User registered successfully")
}

func (b *Backend) analyze(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Domains []string `json:"domains"`
	}
	if err := decodeBody(r, &in); err != nil || len(in.Domains) == 0 {
		message(w, http.StatusBadRequest, "No domains provided")
		return
	}

	results := make([]map[string]any, 0, len(in.Domains))
	for _, d := range in.Domains {
		results = append(results, map[string]any{
			"domain":          d,
			"timestamp":       time.Now().Format(time.RFC3339),
			"is_available":    false,
			"quality_score":   float64(len(d)),
			"recommendations": []string{"Check domain history"},
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"total_domains": len(in.Domains),
		"processed":     len(in.Domains),
		"successful":    len(in.Domains),
		"failed":        0,
		"domains":       results,
	})
}

func (b *Backend) llmAnalyze(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Domains []json.RawMessage `json:"domains"`
	}
	if err := decodeBody(r, &in); err != nil || len(in.Domains) == 0 {
		message(w, http.StatusBadRequest, "No domains provided")
		return
	}

	results := make([]map[string]any, 0, len(in.Domains))
	for _, raw := range in.Domains {
		name := ""
		if err := json.Unmarshal(raw, &name); err != nil {
			var obj struct {
				Domain string `json:"domain"`
			}
			_ = json.Unmarshal(raw, &obj)
			name = obj.Domain
		}
		results = append(results, map[string]any{
			"domain":       name,
			"llm_analysis": "Looks like a reasonable domain.",
			"model_used":   b.setting("openrouter_model"),
			"tokens_used":  42,
			"status":       "success",
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"total_domains": len(in.Domains),
		"processed":     len(in.Domains),
		"successful":    len(in.Domains),
		"failed":        0,
		"domains":       results,
	})
}

func (b *Backend) setting(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings[key]
}

func (b *Backend) listDomains(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	b.mu.Lock()
	all := append([]map[string]any(nil), b.domains...)
	b.mu.Unlock()

	WriteJSON(w, http.StatusOK, map[string]any{
		"domains":  paginate(all, page, perPage),
		"total":    len(all),
		"page":     page,
		"per_page": perPage,
		"pages":    pages(len(all), perPage),
	})
}

func (b *Backend) domainDetail(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["domain"])
	if err != nil {
		message(w, http.StatusBadRequest, "Invalid domain")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.domains {
		if d["domain"] == name {
			WriteJSON(w, http.StatusOK, d)
			return
		}
	}
	message(w, http.StatusNotFound, "Domain not found")
}

func (b *Backend) sortedReports() []map[string]any {
	ids := make([]int64, 0, len(b.reports))
	for id := range b.reports {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.reports[id])
	}
	return out
}

func (b *Backend) listReports(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	b.mu.Lock()
	all := b.sortedReports()
	b.mu.Unlock()

	WriteJSON(w, http.StatusOK, map[string]any{
		"reports":  paginate(all, page, perPage),
		"total":    len(all),
		"page":     page,
		"per_page": perPage,
		"pages":    pages(len(all), perPage),
	})
}

func (b *Backend) deleteReport(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	b.mu.Lock()
	_, ok := b.reports[id]
	delete(b.reports, id)
	b.mu.Unlock()

	if !ok {
		message(w, http.StatusNotFound, "Report not found or access denied")
		return
	}
	message(w, http.StatusOK, "Report deleted successfully")
}

func (b *Backend) exportReports(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Format    string  `json:"format"`
		ReportIDs []int64 `json:"report_ids"`
	}
	if err := decodeBody(r, &in); err != nil {
		message(w, http.StatusBadRequest, "Invalid request")
		return
	}

	b.mu.Lock()
	var selected []map[string]any
	for _, id := range in.ReportIDs {
		if rep, ok := b.reports[id]; ok {
			selected = append(selected, rep)
		}
	}
	b.mu.Unlock()

	switch in.Format {
	case "json":
		WriteJSON(w, http.StatusOK, selected)
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"id", "type", "domain", "created_at"})
		for _, rep := range selected {
			_ = cw.Write([]string{
				strconv.FormatInt(rep["id"].(int64), 10),
				rep["type"].(string),
				rep["domain"].(string),
				rep["created_at"].(string),
			})
		}
		cw.Flush()
	default:
		message(w, http.StatusBadRequest, "Unsupported format")
	}
}

func (b *Backend) getSettings(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := make(map[string]string, len(b.settings))
	for k, v := range b.settings {
		out[k] = v
	}
	b.mu.Unlock()
	WriteJSON(w, http.StatusOK, out)
}

func (b *Backend) updateSettings(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	if err := decodeBody(r, &in); err != nil {
		message(w, http.StatusBadRequest, "Invalid request")
		return
	}
	b.mu.Lock()
	for k, v := range in {
		switch val := v.(type) {
		case string:
			b.settings[k] = val
		default:
			buf, _ := json.Marshal(val)
			b.settings[k] = string(buf)
		}
	}
	b.mu.Unlock()
	message(w, http.StatusOK, "Settings updated successfully")
}

func userJSON(u *user) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"role":       u.Role,
		"is_active":  u.Active,
		"created_at": u.Created,
		"last_login": nil,
	}
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	search := r.URL.Query().Get("search")

	b.mu.Lock()
	var matched []*user
	for _, u := range b.users {
		if search == "" || strings.Contains(u.Username, search) || strings.Contains(u.Email, search) {
			matched = append(matched, u)
		}
	}
	b.mu.Unlock()
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	out := make([]map[string]any, 0, len(matched))
	for _, u := range paginate(matched, page, perPage) {
		out = append(out, userJSON(u))
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"users":    out,
		"total":    len(matched),
		"page":     page,
		"per_page": perPage,
		"pages":    pages(len(matched), perPage),
	})
}

func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	if err := decodeBody(r, &in); err != nil || in.Username == "" || in.Password == "" {
		message(w, http.StatusBadRequest, "Username and password required")
		return
	}
	if in.Role == "" {
		in.Role = "user"
	}
	if in.Role != "user" && in.Role != "admin" {
		message(w, http.StatusBadRequest, "Invalid role")
		return
	}

	b.mu.Lock()
	if b.findUser(in.Username) != nil {
		b.mu.Unlock()
		message(w, http.StatusBadRequest, "Username already exists")
		return
	}
	u := b.addUser(in.Username, in.Password, in.Email, in.Role)
	b.mu.Unlock()

	WriteJSON(w, http.StatusCreated, map[string]any{"message": "User created successfully", "id": u.ID})
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var in map[string]any
	if err := decodeBody(r, &in); err != nil {
		message(w, http.StatusBadRequest, "Invalid request")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	if !ok {
		message(w, http.StatusNotFound, "User not found")
		return
	}
	if v, ok := in["email"].(string); ok {
		u.Email = v
	}
	if v, ok := in["role"].(string); ok {
		u.Role = v
	}
	if v, ok := in["is_active"].(bool); ok {
		u.Active = v
	}
	if v, ok := in["password"].(string); ok && v != "" {
		u.Password = v
	}
	message(w, http.StatusOK, "User updated successfully")
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	b.mu.Lock()
	_, ok := b.users[id]
	delete(b.users, id)
	b.mu.Unlock()

	if !ok {
		message(w, http.StatusNotFound, "User not found")
		return
	}
	message(w, http.StatusOK, "User deleted successfully")
}
