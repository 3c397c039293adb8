package security

import (
	"testing"
)

func TestGenerateVerificationToken(t *testing.T) {
	tests := []struct {
		name    string
		guildID int64
		teamID  uint
		ign     string
	}{
		{
			name:    "Regular player",
			guildID: 123456789,
			teamID:  1,
			ign:     "Shadowfax",
		},
		{
			name:    "Name with spaces",
			guildID: 987654321,
			teamID:  7,
			ign:     "The Night King",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateVerificationToken(tt.guildID, tt.teamID, tt.ign, "test_secret_key_minimum_32_chars")
			if err != nil {
				t.Fatalf("GenerateVerificationToken() error = %v", err)
			}
			if token == "" {
				t.Error("GenerateVerificationToken() returned empty token")
			}

			claims, err := ValidateVerificationToken(token, "test_secret_key_minimum_32_chars")
			if err != nil {
				t.Fatalf("ValidateVerificationToken() error = %v", err)
			}

			if claims.GuildID != tt.guildID {
				t.Errorf("GuildID = %d, want %d", claims.GuildID, tt.guildID)
			}
			if claims.TeamID != tt.teamID {
				t.Errorf("TeamID = %d, want %d", claims.TeamID, tt.teamID)
			}
			if claims.IGN != tt.ign {
				t.Errorf("IGN = %q, want %q", claims.IGN, tt.ign)
			}
		})
	}
}

func TestValidateVerificationToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Empty token",
			token: "",
		},
		{
			name:  "Invalid format",
			token: "invalid.token.here",
		},
		{
			name:  "Random string",
			token: "randomstring",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateVerificationToken(tt.token, "test_secret_key_minimum_32_chars")
			if err == nil {
				t.Error("ValidateVerificationToken() expected error for invalid token, got nil")
			}
		})
	}
}

func TestValidateVerificationToken_WrongSecret(t *testing.T) {
	token, err := GenerateVerificationToken(1, 1, "Shadowfax", "test_secret_key_minimum_32_chars")
	if err != nil {
		t.Fatalf("GenerateVerificationToken() error = %v", err)
	}

	if _, err := ValidateVerificationToken(token, "another_secret_key_min_32_chars!"); err == nil {
		t.Error("ValidateVerificationToken() accepted a token signed with another secret")
	}
}
