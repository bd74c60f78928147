package middleware

import (
	"errors"
	"net/http"
	"strings"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/MrEthical07/goGuard/upload"
)

// multipartOverhead is the body allowance beyond the file ceiling for part
// headers and other form fields.
const multipartOverhead = 1 << 20

// maxMemory is the in-memory share of a parsed multipart form; larger parts
// spill to temporary files.
const maxMemory = 8 << 20

// LimitUpload parses multipart requests and checks every file part in field
// against the Monitor's upload policy. Oversized parts answer 413, disallowed
// types 415. Requests without that field pass through unchanged.
func LimitUpload(monitor *goGuard.Monitor, field string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if monitor == nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			if !strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
				next.ServeHTTP(w, r)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, monitor.UploadPolicy().MaxSize()+multipartOverhead)
			if err := r.ParseMultipartForm(maxMemory); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					http.Error(w, upload.ReasonTooLarge, http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}

			if r.MultipartForm != nil {
				for _, fh := range r.MultipartForm.File[field] {
					v := monitor.ValidateUpload(upload.Candidate{
						Name:        fh.Filename,
						Size:        fh.Size,
						ContentType: fh.Header.Get("Content-Type"),
					})
					if v.OK() {
						continue
					}
					status := http.StatusUnsupportedMediaType
					if strings.HasPrefix(v.Reason(), upload.ReasonTooLarge) {
						status = http.StatusRequestEntityTooLarge
					}
					http.Error(w, v.Reason(), status)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
