package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"pdftutor/file"
	"pdftutor/tutor"

	"go.uber.org/zap"
)

// multipartMemory is how much of an upload is kept in memory before spilling to disk.
const multipartMemory = 32 << 20

var (
	errNoFile        = errors.New("no file uploaded")
	errEmptyFilename = errors.New("no file selected")
)

// uploadFields are tried in order. "pdf" is the field name older clients send.
var uploadFields = []string{"fileInput", "pdf"}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		MaxUploadMB int64
	}{
		MaxUploadMB: s.maxUpload >> 20,
	}
	if err := s.page.Execute(w, data); err != nil {
		loggerFrom(r.Context(), s.logger).Error("Failed to render index page", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), s.logger)

	if r.ContentLength > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, header, err := uploadedFile(r.MultipartForm)
	switch {
	case err == nil:
	case errors.Is(err, errNoFile):
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	case errors.Is(err, errEmptyFilename):
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	default:
		writeError(w, http.StatusInternalServerError, "Error processing file: "+err.Error())
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		logger.Error("Failed to read upload", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error processing file: "+err.Error())
		return
	}

	res, err := s.extractor.Extract(r.Context(), file.Document{Name: header.Filename, Data: data})
	switch {
	case err == nil:
	case errors.Is(err, file.ErrUnsupportedFileType):
		writeError(w, http.StatusBadRequest, "Unsupported file type")
		return
	case errors.Is(err, file.ErrNoText):
		writeError(w, http.StatusBadRequest, "Could not extract text from this file")
		return
	default:
		logger.Error("Extraction failed",
			zap.String("filename", header.Filename),
			zap.Int("bytes", len(data)),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error processing file: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{
		Success: true,
		Text:    res.Text,
		Method:  string(res.Method),
		Pages:   res.Pages,
	})
}

// uploadedFile finds the upload under any accepted field name. A field sent
// with an empty filename arrives as a plain form value.
func uploadedFile(form *multipart.Form) (multipart.File, *multipart.FileHeader, error) {
	for _, field := range uploadFields {
		if headers := form.File[field]; len(headers) > 0 {
			header := headers[0]
			if strings.TrimSpace(header.Filename) == "" {
				return nil, nil, errEmptyFilename
			}
			f, err := header.Open()
			if err != nil {
				return nil, nil, err
			}
			return f, header, nil
		}
		if _, ok := form.Value[field]; ok {
			return nil, nil, errEmptyFilename
		}
	}
	return nil, nil, errNoFile
}

func (s *Server) handleTeach(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), s.logger)
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	var req tutor.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := s.tutor.Teach(r.Context(), req)
	if err != nil {
		var genErr *tutor.GenerationError
		switch {
		case errors.Is(err, tutor.ErrNoContent):
			writeError(w, http.StatusBadRequest, "No document content provided")
		case errors.As(err, &genErr):
			writeError(w, http.StatusInternalServerError, genErr.Error())
		default:
			logger.Error("Teach failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "AI teacher error: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, teachResponse{Success: true, Answer: res.Answer})
}
