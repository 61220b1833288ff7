package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeasons(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "2023", want: []int{2023}},
		{name: "list", raw: "2020,2022", want: []int{2020, 2022}},
		{name: "range", raw: "2019-2021", want: []int{2019, 2020, 2021}},
		{name: "mixed", raw: "1999,2019-2020", want: []int{1999, 2019, 2020}},
		{name: "spaces", raw: " 2020 , 2021 ", want: []int{2020, 2021}},
		{name: "garbage", raw: "twenty", wantErr: true},
		{name: "bad range", raw: "2020-abc", wantErr: true},
		{name: "backwards range", raw: "2021-2019", wantErr: true},
		{name: "before published range", raw: "1998", wantErr: true},
		{name: "after published range", raw: "2026", wantErr: true},
		{name: "range leaves published years", raw: "1997-2000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeasons(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSeason(t *testing.T) {
	season, err := ParseSeason("2023")
	require.NoError(t, err)
	assert.Equal(t, 2023, season)

	_, err = ParseSeason("")
	assert.Error(t, err)

	_, err = ParseSeason("1998")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestParseList(t *testing.T) {
	assert.Nil(t, ParseList(""))
	assert.Equal(t, []string{"KC", "BUF"}, ParseList("KC, BUF"))
	assert.Equal(t, []string{"KC"}, ParseList(",KC,"))
}

func TestParseInt(t *testing.T) {
	n, err := ParseInt("", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = ParseInt("7", 42)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = ParseInt("x", 42)
	assert.Error(t, err)
}
