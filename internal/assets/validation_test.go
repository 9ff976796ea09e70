package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "template name", input: "a-post", wantErr: nil},
		{name: "underscore", input: "home_page", wantErr: nil},
		{name: "mixed case and digits", input: "Post2", wantErr: nil},
		{name: "empty", input: "", wantErr: ErrInvalidAssetName},
		{name: "forward slash", input: "partials/head", wantErr: ErrInvalidAssetName},
		{name: "backslash", input: `partials\head`, wantErr: ErrInvalidAssetName},
		{name: "extension", input: "homepage.html", wantErr: ErrInvalidAssetName},
		{name: "traversal", input: "..", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
