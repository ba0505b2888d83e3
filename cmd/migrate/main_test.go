package main

import "testing"

func TestVersionArg(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{[]string{"3"}, 3, false},
		{nil, 0, true},
		{[]string{"x"}, 0, true},
		{[]string{"-1"}, 0, true},
	}

	for _, tt := range tests {
		got, err := versionArg(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("versionArg(%v): expected error=%v, got %v", tt.args, tt.wantErr, err)
		}
		if got != tt.want {
			t.Errorf("versionArg(%v): expected %d, got %d", tt.args, tt.want, got)
		}
	}
}
