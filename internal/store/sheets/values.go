package sheets

import (
	"context"
	"fmt"
	"os"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// ValuesAPI is the slice of the Sheets values API the store needs.
type ValuesAPI interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
}

type serviceValues struct {
	svc *gsheet.Service
}

func (v *serviceValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := v.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *serviceValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := v.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (v *serviceValues) Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	vr := &gsheet.ValueRange{Values: values}
	// RAW keeps amounts and dates exactly as written.
	_, err := v.svc.Spreadsheets.Values.Update(spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// Credentials resolves service account credentials from inline JSON or a
// file path, preferring the inline value.
func Credentials(inlineJSON, file string) ([]byte, error) {
	switch {
	case inlineJSON != "":
		return []byte(inlineJSON), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("missing service account credentials (set storage.sheets.credentials_json or storage.sheets.credentials_file)")
	}
}

// NewValuesAPI creates a ValuesAPI backed by the Google Sheets service.
func NewValuesAPI(ctx context.Context, credentialsJSON []byte) (ValuesAPI, error) {
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &serviceValues{svc: svc}, nil
}
