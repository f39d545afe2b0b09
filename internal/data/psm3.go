package data

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"pv-plant-model/internal/metrics"
	"pv-plant-model/internal/model"
)

// PSM3Client fetches irradiance and weather data from the NREL NSRDB
// PSM3 download endpoint.
type PSM3Client struct {
	APIKey  string
	Email   string
	BaseURL string
	Client  *http.Client
	Cache   *WeatherCache // optional; nil disables caching
}

// NewPSM3Client creates a new PSM3 client.
// If baseURL is empty, defaults to the production NSRDB endpoint.
func NewPSM3Client(apiKey, email, baseURL string) *PSM3Client {
	if baseURL == "" {
		baseURL = "https://developer.nrel.gov/api/nsrdb/v2/solar/psm3-download.csv"
	}
	return &PSM3Client{
		APIKey:  apiKey,
		Email:   email,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchParams defines parameters for a PSM3 download.
type FetchParams struct {
	Latitude   float64
	Longitude  float64
	Names      string  // "tmy" or a single year between 1998 and 2020
	Interval   int     // sample interval in minutes: 30 or 60
	BiasFactor float64 // multiplier applied to ghi/dni/dhi; 1 leaves them untouched
}

func (p FetchParams) validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude must be in [-90, 90]")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude must be in [-180, 180]")
	}
	if p.Names != "tmy" {
		year, err := strconv.Atoi(p.Names)
		if err != nil || year < 1998 || year > 2020 {
			return fmt.Errorf(`names must be "tmy" or a year between 1998 and 2020`)
		}
	}
	if p.Interval != 30 && p.Interval != 60 {
		return fmt.Errorf("interval must be 30 or 60 minutes")
	}
	return nil
}

// PSM3Error represents an error from the PSM3 API.
type PSM3Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *PSM3Error) Error() string {
	return e.Message
}

var psm3Attributes = []string{"ghi", "dni", "dhi", "air_temperature", "wind_speed", "surface_albedo"}

// Fetch downloads one year (or a TMY) of weather data for a location.
//
// Rate limits and server errors are retried with exponential backoff for up
// to two minutes; credential and request errors fail immediately. When a
// cache is attached, a previously fetched payload for the same location,
// year, and interval short-circuits the request entirely.
func (c *PSM3Client) Fetch(ctx context.Context, params FetchParams) (*SiteDataset, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	key := requestKey(params)
	if c.Cache != nil {
		raw, fetchedAt, err := c.Cache.Get(key)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("weather cache read failed")
		case raw != nil:
			metrics.WeatherCacheLookups.WithLabelValues("hit").Inc()
			ds, perr := ParsePSM3(raw, params)
			if perr == nil {
				ds.FetchedAt = fetchedAt.UTC().Format(time.RFC3339)
				log.Info().
					Str("names", params.Names).
					Int("samples", len(ds.Data)).
					Time("fetched_at", fetchedAt).
					Msg("weather cache hit")
				return ds, nil
			}
			log.Warn().Err(perr).Msg("discarding unparseable cached payload")
		default:
			metrics.WeatherCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.APIKey)
	q.Set("email", c.Email)
	q.Set("wkt", fmt.Sprintf("POINT(%g %g)", params.Longitude, params.Latitude))
	q.Set("names", params.Names)
	q.Set("interval", strconv.Itoa(params.Interval))
	q.Set("utc", "false")
	q.Set("leap_day", "false")
	q.Set("attributes", strings.Join(psm3Attributes, ","))
	u.RawQuery = q.Encode()

	log.Info().
		Float64("latitude", params.Latitude).
		Float64("longitude", params.Longitude).
		Str("names", params.Names).
		Int("interval", params.Interval).
		Msg("fetching PSM3 weather data")

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "text/csv")

		start := time.Now()
		resp, err := c.Client.Do(req)
		metrics.PSM3Latency.WithLabelValues(params.Names).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.PSM3CallsTotal.WithLabelValues(params.Names, "network_error").Inc()
			return fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()
		metrics.PSM3CallsTotal.WithLabelValues(params.Names, strconv.Itoa(resp.StatusCode)).Inc()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests:
			return &PSM3Error{
				StatusCode: resp.StatusCode,
				Code:       "RATE_LIMIT_EXCEEDED",
				Message:    fmt.Sprintf("rate limit exceeded, retry after: %s", resp.Header.Get("Retry-After")),
			}
		case resp.StatusCode >= 500:
			return &PSM3Error{
				StatusCode: resp.StatusCode,
				Code:       "SERVER_ERROR",
				Message:    fmt.Sprintf("API returned status %d", resp.StatusCode),
			}
		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
			return backoff.Permanent(&PSM3Error{
				StatusCode: resp.StatusCode,
				Code:       "INVALID_API_KEY",
				Message:    "invalid API key or insufficient permissions",
			})
		default:
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(&PSM3Error{
				StatusCode: resp.StatusCode,
				Code:       "API_ERROR",
				Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
			})
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}

	ds, err := ParsePSM3(body, params)
	if err != nil {
		return nil, err
	}
	ds.FetchedAt = time.Now().UTC().Format(time.RFC3339)

	if c.Cache != nil {
		if err := c.Cache.Put(key, body); err != nil {
			log.Warn().Err(err).Msg("weather cache write failed")
		}
	}

	log.Info().
		Int("samples", len(ds.Data)).
		Int("utc_offset", ds.Site.UTCOffset).
		Float64("elevation", ds.Site.Elevation).
		Msg("PSM3 fetch complete")

	return ds, nil
}

func (c *PSM3Client) validateCredentials() error {
	if c.APIKey == "" {
		return &PSM3Error{
			Code:    "MISSING_API_KEY",
			Message: "API key is required",
		}
	}
	if c.Email == "" {
		return &PSM3Error{
			Code:    "MISSING_EMAIL",
			Message: "email is required",
		}
	}
	return nil
}

// requestKey builds a deterministic cache key from the fetch parameters.
// The bias factor is excluded: the cache stores the raw upstream payload
// and the bias applies at parse time.
func requestKey(params FetchParams) string {
	keyStr := fmt.Sprintf("%.4f:%.4f:%s:%d",
		params.Latitude,
		params.Longitude,
		params.Names,
		params.Interval,
	)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}

// ParsePSM3 decodes a PSM3 CSV payload into a site dataset.
//
// The payload starts with two metadata rows (names, then values) carrying
// the grid cell's time zone and elevation, followed by a column header and
// the data rows. Timestamps are local standard time in the zone the
// metadata declares.
func ParsePSM3(raw []byte, params FetchParams) (*SiteDataset, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1

	metaHeader, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("psm3: read metadata header: %w", err)
	}
	metaValues, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("psm3: read metadata values: %w", err)
	}
	meta := make(map[string]string, len(metaHeader))
	for i, name := range metaHeader {
		if i < len(metaValues) {
			meta[name] = metaValues[i]
		}
	}

	utcOffset, err := strconv.Atoi(meta["Time Zone"])
	if err != nil {
		return nil, fmt.Errorf("psm3: bad Time Zone %q", meta["Time Zone"])
	}
	elevation, err := strconv.ParseFloat(meta["Elevation"], 64)
	if err != nil {
		return nil, fmt.Errorf("psm3: bad Elevation %q", meta["Elevation"])
	}

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("psm3: read column header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, want := range []string{"Year", "Month", "Day", "Hour", "Minute", "GHI", "DNI", "DHI", "Temperature", "Wind Speed", "Surface Albedo"} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("psm3: response missing column %q", want)
		}
	}

	bias := params.BiasFactor
	if bias == 0 {
		bias = 1
	}
	zone := time.FixedZone(fmt.Sprintf("UTC%+d", utcOffset), utcOffset*3600)

	var records []Record
	for line := 4; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("psm3: read data row: %w", err)
		}

		f := fieldReader{row: row, col: col}
		year := int(f.float("Year"))
		month := int(f.float("Month"))
		day := int(f.float("Day"))
		hour := int(f.float("Hour"))
		minute := int(f.float("Minute"))
		rec := Record{
			GHI:           f.float("GHI") * bias,
			DNI:           f.float("DNI") * bias,
			DHI:           f.float("DHI") * bias,
			TempAir:       f.float("Temperature"),
			WindSpeed:     f.float("Wind Speed"),
			SurfaceAlbedo: f.float("Surface Albedo"),
		}
		if f.err != nil {
			return nil, fmt.Errorf("psm3: line %d: %w", line, f.err)
		}
		rec.Time = time.Date(year, time.Month(month), day, hour, minute, 0, 0, zone)
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("psm3: response contained no data rows")
	}

	return &SiteDataset{
		Site: model.Site{
			Latitude:  params.Latitude,
			Longitude: params.Longitude,
			UTCOffset: utcOffset,
			Elevation: elevation,
		},
		Source:   "psm3",
		TimeStep: params.Interval,
		Data:     records,
	}, nil
}

type fieldReader struct {
	row []string
	col map[string]int
	err error
}

func (f *fieldReader) float(name string) float64 {
	i, ok := f.col[name]
	if !ok || i >= len(f.row) {
		if f.err == nil {
			f.err = fmt.Errorf("missing field %q", name)
		}
		return 0
	}
	v, err := strconv.ParseFloat(f.row[i], 64)
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("field %q: %w", name, err)
	}
	return v
}
