package storage

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"s3 ok", Config{Provider: ProviderS3, Bucket: "audio"}, false},
		{"s3 no bucket", Config{Provider: ProviderS3}, true},
		{"s3 half credentials", Config{Provider: ProviderS3, Bucket: "audio", AccessKey: "k"}, true},
		{"unknown", Config{Provider: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
