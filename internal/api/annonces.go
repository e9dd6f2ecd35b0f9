package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"immo-client/internal/model"
	"immo-client/internal/util"
)

// MediaField is the form field every attachment is sent under.
const MediaField = "medias"

func (c *Client) AddAnnonce(ctx context.Context, req model.AnnonceRequest) (model.AddAnnonceResponse, error) {
	body, contentType, err := EncodeAnnonce(req)
	if err != nil {
		return model.AddAnnonceResponse{}, err
	}

	var resp model.AddAnnonceResponse
	if err := c.do(ctx, http.MethodPost, PathAddAnnonce, nil, body, contentType, &resp); err != nil {
		return model.AddAnnonceResponse{}, err
	}

	return resp, nil
}

func (c *Client) ListAnnonces(ctx context.Context, q model.ListAnnoncesQuery) (model.ListAnnoncesResponse, error) {
	query := url.Values{}
	if v := strings.TrimSpace(q.City); v != "" {
		query.Set("city", v)
	}
	if v := strings.TrimSpace(q.Type); v != "" {
		query.Set("type", v)
	}
	if v := strings.TrimSpace(q.TransactionType); v != "" {
		query.Set("transactionType", v)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var resp model.ListAnnoncesResponse
	if err := c.do(ctx, http.MethodGet, PathAnnonces, query, nil, "", &resp); err != nil {
		return model.ListAnnoncesResponse{}, err
	}

	return resp, nil
}

// EncodeAnnonce builds the multipart body: scalars as plain fields, nested
// sections and feature lists as JSON text, then one part per media file.
func EncodeAnnonce(req model.AnnonceRequest) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	scalars := []struct {
		name  string
		value string
	}{
		{"title", req.Title},
		{"description", req.Description},
		{"statut", req.Statut},
		{"type", req.Type},
		{"surface", strconv.FormatFloat(req.Surface, 'f', -1, 64)},
	}
	for _, field := range scalars {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.name, err)
		}
	}

	interior := req.EquipementsInterieurs
	if interior == nil {
		interior = []string{}
	}
	exterior := req.EquipementsExterieurs
	if exterior == nil {
		exterior = []string{}
	}

	sections := []struct {
		name  string
		value any
	}{
		{"contact", req.Contact},
		{"localisation", req.Localisation},
		{"composition", req.Composition},
		{"transaction", req.Transaction},
		{"construction", req.Construction},
		{"visibilite", req.Visibilite},
		{"equipementsInterieurs", interior},
		{"equipementsExterieurs", exterior},
	}
	for _, section := range sections {
		encoded, err := json.Marshal(section.value)
		if err != nil {
			return nil, "", fmt.Errorf("encode %s: %w", section.name, err)
		}
		if err := w.WriteField(section.name, string(encoded)); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", section.name, err)
		}
	}

	for _, file := range req.Medias {
		contentType := file.ContentType
		if contentType == "" {
			contentType = util.DetectMIME(file.Content)
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, MediaField, util.UploadFilename(file.Name)))
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create media part %s: %w", file.Name, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("write media %s: %w", file.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}
