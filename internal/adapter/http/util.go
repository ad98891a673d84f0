package adapthttp

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"

	"healthweb/internal/domain"

	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json: %v", domain.ErrValidation, err)
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// pathID returns the positive {id} route variable.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == "application/json" {
			return true
		}
	}
	return false
}

func isJSONBody(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// backTo returns the same-site path of the Referer, or fallback.
func backTo(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") {
		return fallback
	}
	if ref.Host != "" && ref.Host != r.Host {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// staticFromDisk serves files under dir. Directories and missing files are 404.
func staticFromDisk(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean("/" + r.URL.Path)
		fi, err := os.Stat(path.Join(dir, reqPath))
		if err != nil || fi.IsDir() {
			http.NotFound(w, r)
			return
		}
		r.URL.Path = reqPath
		fileServer.ServeHTTP(w, r)
	})
}

// Form parsing.

func formFloat(r *http.Request, key, name string) (*float64, error) {
	v := strings.TrimSpace(r.PostFormValue(key))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, name)
	}
	return &f, nil
}

func formInt(r *http.Request, key, name string) (*int, error) {
	v := strings.TrimSpace(r.PostFormValue(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a whole number", domain.ErrValidation, name)
	}
	return &n, nil
}

func formInt64(r *http.Request, key string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue(key)), 10, 64)
	return n, err == nil && n > 0
}

func parseRecordForm(r *http.Request) (domain.RecordInput, error) {
	in := domain.RecordInput{
		RecordDate: r.PostFormValue("record_date"),
		Notes:      strings.TrimSpace(r.PostFormValue("notes")),
	}
	var err error
	floats := []struct {
		key, name string
		dst       **float64
	}{
		{"weight", "weight", &in.Weight},
		{"height", "height", &in.Height},
		{"blood_sugar", "blood sugar", &in.BloodSugar},
		{"sleep_hours", "sleep hours", &in.SleepHours},
	}
	for _, f := range floats {
		if *f.dst, err = formFloat(r, f.key, f.name); err != nil {
			return in, err
		}
	}
	ints := []struct {
		key, name string
		dst       **int
	}{
		{"blood_pressure_systolic", "systolic pressure", &in.BloodPressureSystolic},
		{"blood_pressure_diastolic", "diastolic pressure", &in.BloodPressureDiastolic},
		{"heart_rate", "heart rate", &in.HeartRate},
		{"steps", "steps", &in.Steps},
	}
	for _, f := range ints {
		if *f.dst, err = formInt(r, f.key, f.name); err != nil {
			return in, err
		}
	}
	return in, nil
}
