package tests

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/Br01t/feedback-fort/apps/api/echo"
	"github.com/Br01t/feedback-fort/core/questionnaire"
	"github.com/Br01t/feedback-fort/core/user"
	testutil "github.com/Br01t/feedback-fort/tests"
)

func Test_questionnaireApi_questions(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/v1/questions")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var catalog echoapi.CatalogResponse
	decode(t, rec, &catalog)
	assert.Equal(t, questionnaire.Questions, catalog.Questions)
	assert.Equal(t, questionnaire.FeedbackQuestions, catalog.Feedback)
	assert.Equal(t, questionnaire.Sections(), catalog.Sections)
}

func Test_questionnaireApi_submit(t *testing.T) {
	db.Reset()
	usr, profile := testutil.CreateUser(t, usrRepo, "mario@test.it", "secret123", user.RoleUser, true)
	token := getToken(t, usr, &profile)

	tests := []httpTest{
		{name: "auth required", body: []byte(`{"answers": {"meta_nome": "Mario Rossi"}}`), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "answers required", body: []byte(`{}`), token: token, wantCode: http.StatusBadRequest},
		{
			name: "worker required", body: []byte(`{"answers": {"meta_nome": "  ", "1.2": "SI"}}`), token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"answers.meta_nome": "il nome del lavoratore è obbligatorio"}),
		},
		{
			name: "created", token: token, wantCode: http.StatusCreated,
			body: []byte(`{"answers": {"meta_nome": "Mario Rossi", "meta_reparto": "Amministrazione", "1.1": 20, "1.2": "SI", "5.1": ["a", "b"]}}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/responses", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var r questionnaire.Response
				decode(t, rec, &r)
				assert.NotEmpty(t, r.ID)
				assert.Equal(t, usr.ID, r.UserID)
				assert.Equal(t, usr.Email, r.UserEmail)
				assert.WithinDuration(t, time.Now(), r.CreatedAt, time.Minute)
				assert.Equal(t, "Mario Rossi", r.Answers.Render(questionnaire.FieldWorker))
				assert.Equal(t, "20", r.Answers.Render("1.1"))
				assert.Equal(t, "a, b", r.Answers.Render("5.1"))
			}
		})
	}
}

func Test_questionnaireApi_query(t *testing.T) {
	db.Reset()
	usr, profile := testutil.CreateUser(t, usrRepo, "mario@test.it", "secret123", user.RoleUser, true)
	token := getToken(t, usr, &profile)

	march := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	july := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)
	mario1 := testutil.CreateResponse(t, respRepo, usr, questionnaire.Answers{"meta_nome": "Mario Rossi", "meta_reparto": "Amministrazione"}, march)
	anna := testutil.CreateResponse(t, respRepo, usr, questionnaire.Answers{"meta_nome": "Anna Bianchi", "meta_reparto": "Produzione"}, may)
	mario2 := testutil.CreateResponse(t, respRepo, usr, questionnaire.Answers{"meta_nome": "Mario Rossi", "meta_reparto": "Amministrazione"}, july)

	path := func(params ...string) string {
		v := make(url.Values)
		for i := 0; i+1 < len(params); i += 2 {
			v.Add(params[i], params[i+1])
		}
		return "/v1/responses?" + v.Encode()
	}

	tests := []httpTest{
		{name: "auth required", path: "/v1/responses", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "all, newest first", path: "/v1/responses", token: token, wantData: marchallList(t, mario2, anna, mario1)},
		{name: "oldest first", path: path("ordering", "createdAt"), token: token, wantData: marchallList(t, mario1, anna, mario2)},
		{name: "worker", path: path("worker", "Mario Rossi"), token: token, wantData: marchallList(t, mario2, mario1)},
		{name: "department", path: path("reparto", "Produzione"), token: token, wantData: marchallList(t, anna)},
		{name: "date range", path: path("date_from", "2024-04-01", "date_to", "2024-07-10"), token: token, wantData: marchallList(t, mario2, anna)},
		{name: "date_to is inclusive", path: path("date_to", "2024-03-10"), token: token, wantData: marchallList(t, mario1)},
		{name: "no match", path: path("worker", "mario rossi"), token: token, wantData: marchallList(t)},
		{
			name: "invalid date", path: path("date_from", "10/03/2024"), token: token, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date_from": "data non valida, usa il formato AAAA-MM-GG"}),
		},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_questionnaireApi_queryKeepsWhitespace(t *testing.T) {
	db.Reset()
	usr, profile := testutil.CreateUser(t, usrRepo, "mario@test.it", "secret123", user.RoleUser, true)
	token := getToken(t, usr, &profile)

	submit := func(worker string) questionnaire.Response {
		body := marchallObj(t, map[string]interface{}{
			"answers": map[string]interface{}{"meta_nome": worker, "meta_reparto": "IT "},
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/responses", token, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
		var r questionnaire.Response
		decode(t, rec, &r)
		return r
	}
	padded := submit("Mario Rossi ")
	plain := submit("Mario Rossi")

	req, rec := newAuthRequest(http.MethodGet, "/v1/analysis/workers", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var workers []string
	decode(t, rec, &workers)
	assert.Equal(t, []string{"Mario Rossi", "Mario Rossi "}, workers)

	tests := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{name: "trailing space", query: url.Values{"worker": {"Mario Rossi "}}, want: []string{padded.ID}},
		{name: "no trailing space", query: url.Values{"worker": {"Mario Rossi"}}, want: []string{plain.ID}},
		{name: "department with trailing space", query: url.Values{"reparto": {"IT "}}, want: []string{plain.ID, padded.ID}},
		{name: "department trimmed", query: url.Values{"reparto": {"IT"}}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/responses?"+tt.query.Encode(), token)
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			var rs []questionnaire.Response
			decode(t, rec, &rs)
			got := make([]string, 0, len(rs))
			for _, r := range rs {
				got = append(got, r.ID)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func Test_questionnaireApi_retrieve(t *testing.T) {
	db.Reset()
	usr, profile := testutil.CreateUser(t, usrRepo, "mario@test.it", "secret123", user.RoleUser, true)
	token := getToken(t, usr, &profile)
	r := testutil.CreateResponse(t, respRepo, usr, questionnaire.Answers{"meta_nome": "Mario Rossi"})

	tests := []httpTest{
		{name: "auth required", path: "/v1/responses/" + r.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "not found", path: "/v1/responses/nope", token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		{name: "found", path: "/v1/responses/" + r.ID, token: token, wantCode: http.StatusOK, wantData: marchallObj(t, r)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
