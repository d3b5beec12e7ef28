package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"reference": {},
	"token":     {},
	"expiresAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore nondeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k, v := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}

		switch nested := v.(type) {
		case map[string]any:
			cleanMap(nested)
		case []any:
			for _, item := range nested {
				if nm, ok := item.(map[string]any); ok {
					cleanMap(nm)
				}
			}
		}
	}
}

func decodeResponse(t testing.TB, res *http.Response, dst any) {
	require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
}

func jsonBody(t testing.TB, v any) io.Reader {
	data, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(data)
}

func executeSQLFile(t testing.TB, db *pgxpool.Pool, path string) {
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read %s", path)

	_, err = db.Exec(context.Background(), string(content))
	require.NoError(t, err, "failed to execute %s", path)
}

// resetState truncates every table, reloads the catalogue and clears rate limit buckets and sent mail.
func resetState(t testing.TB, app *TestApp) {
	executeSQLFile(t, app.DB, "testdata/reset.sql")
	executeSQLFile(t, app.DB, "testdata/catalogue_up.sql")

	require.NoError(t, app.RedisClient.FlushAll(context.Background()).Err())

	app.Mailer.Reset()
}

// insertUser stores a user whose password is TestUserPassword and returns its id.
func insertUser(t testing.TB, db *pgxpool.Pool, login, email string) int {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestUserPassword), bcrypt.MinCost)
	require.NoError(t, err)

	var id int
	err = db.QueryRow(context.Background(),
		`INSERT INTO users (login, name, email, password_hash) VALUES ($1, $2, $3, $4) RETURNING id`,
		login, TestUserName, email, hash,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func authHeader(t testing.TB, app *TestApp, userId int) map[string]string {
	token, _, err := app.Tokens.Issue(&domain.User{ID: userId})
	require.NoError(t, err)

	return map[string]string{"Authorization": "Bearer " + token}
}

func countTickets(t testing.TB, db *pgxpool.Pool, showtimeId int) int {
	var count int
	err := db.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM tickets WHERE showtime_id = $1`, showtimeId).Scan(&count)
	require.NoError(t, err)

	return count
}

func countBookings(t testing.TB, db *pgxpool.Pool) int {
	var count int
	err := db.QueryRow(context.Background(), `SELECT COUNT(*) FROM bookings`).Scan(&count)
	require.NoError(t, err)

	return count
}

func availabilityURL(showtimeId int) string {
	return fmt.Sprintf("/bookings/showtime/%d", showtimeId)
}

func seatCoordinate(row, number int) string {
	return fmt.Sprintf("%d-%d", row, number)
}

func serve(app *TestApp, req *http.Request) *http.Response {
	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)

	return rec.Result()
}

func seatIdFor(t testing.TB, db *pgxpool.Pool, showtimeId, row, number int) int {
	t.Helper()

	query := `
		SELECT se.id
		FROM seats se
		JOIN showtimes sh ON sh.hall_id = se.hall_id
		WHERE sh.id = $1 AND se.row_num = $2 AND se.seat_num = $3
	`

	var id int
	err := db.QueryRow(context.Background(), query, showtimeId, row, number).Scan(&id)
	require.NoError(t, err)

	return id
}
