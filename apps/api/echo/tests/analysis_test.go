package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/Br01t/feedback-fort/core/questionnaire"
	"github.com/Br01t/feedback-fort/core/user"
	testutil "github.com/Br01t/feedback-fort/tests"
)

func Test_analysisApi(t *testing.T) {
	db.Reset()
	usr, profile := testutil.CreateUser(t, usrRepo, "mario@test.it", "secret123", user.RoleUser, true)
	token := getToken(t, usr, &profile)

	now := time.Now().UTC()
	r1 := testutil.CreateResponse(t, respRepo, usr, questionnaire.Answers{
		"meta_nome": "Mario Rossi", "meta_reparto": "Amministrazione", "1.2": "SI", "q2": "Eccellente", "q7": "Molto soddisfatto",
	}, now.Add(-3*time.Hour))
	_ = testutil.CreateResponse(t, respRepo, usr, questionnaire.Answers{
		"meta_nome": "Anna Bianchi", "meta_reparto": "Produzione", "1.2": "NO", "q2": "Scarso", "q7": "Insoddisfatto",
	}, now.Add(-2*time.Hour))
	r3 := testutil.CreateResponse(t, respRepo, usr, questionnaire.Answers{
		"meta_nome": "Mario Rossi", "meta_reparto": "Amministrazione", "1.2": "SI", "1.4": "NO", "q2": "Sufficiente", "q7": "Neutrale",
	}, now.Add(-1*time.Hour))

	label := questionnaire.Label

	tests := []httpTest{
		{name: "auth required", path: "/v1/dashboard", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "dashboard", path: "/v1/dashboard",
			wantData: marchallObj(t, questionnaire.Stats{
				TotalResponses:       3,
				ActiveQuestionnaires: 1,
				AverageScore:         58,
				Satisfaction: []questionnaire.Count{
					{Name: "Neutrale", Value: 1},
					{Name: "Insoddisfatto", Value: 1},
					{Name: "Molto soddisfatto", Value: 1},
				},
				DepartmentScores: []questionnaire.DepartmentScore{
					{Department: "Amministrazione", Score: 75, Responses: 2},
					{Department: "Produzione", Score: 25, Responses: 1},
				},
			}),
		},
		{
			name: "dashboard (department filter)", path: "/v1/dashboard?reparto=Produzione",
			wantData: marchallObj(t, questionnaire.Stats{
				TotalResponses:       1,
				ActiveQuestionnaires: 1,
				AverageScore:         25,
				Satisfaction:         []questionnaire.Count{{Name: "Insoddisfatto", Value: 1}},
				DepartmentScores:     []questionnaire.DepartmentScore{{Department: "Produzione", Score: 25, Responses: 1}},
			}),
		},
		{name: "workers", path: "/v1/analysis/workers", wantData: marchallObj(t, []string{"Anna Bianchi", "Mario Rossi"})},
		{name: "departments", path: "/v1/analysis/departments", wantData: marchallObj(t, []string{"Amministrazione", "Produzione"})},
		{
			name: "worker responses, newest first", path: "/v1/analysis/workers/Mario%20Rossi",
			wantData: marchallObj(t, []questionnaire.ResponseRows{questionnaire.Rows(r3), questionnaire.Rows(r1)}),
		},
		{name: "unknown worker", path: "/v1/analysis/workers/Nessuno", wantData: marchallObj(t, []questionnaire.ResponseRows{})},
		{
			name: "department answers", path: "/v1/analysis/departments/Amministrazione",
			wantData: marchallObj(t, questionnaire.AnswersByQuestion([]questionnaire.Response{r3, r1})),
		},
		{
			name: "distribution", path: "/v1/analysis/distribution?question=1.2,%201.4",
			wantData: marchallObj(t, []questionnaire.QuestionDistribution{
				{QuestionID: "1.2", Label: label("1.2"), Counts: []questionnaire.Count{{Name: "SI", Value: 2}, {Name: "NO", Value: 1}}},
				{QuestionID: "1.4", Label: label("1.4"), Counts: []questionnaire.Count{{Name: "NO", Value: 1}}},
			}),
		},
		{
			name: "distribution by worker", path: "/v1/analysis/distribution?by=worker&key=Anna%20Bianchi&question=1.2",
			wantData: marchallObj(t, []questionnaire.QuestionDistribution{
				{QuestionID: "1.2", Label: label("1.2"), Counts: []questionnaire.Count{{Name: "NO", Value: 1}}},
			}),
		},
		{
			name: "distribution by unknown field", path: "/v1/analysis/distribution?by=postazione",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"by": "valori ammessi: worker, reparto"}),
		},
		{
			name: "invalid date", path: "/v1/analysis/workers?date_to=ieri",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"date_to": "data non valida, usa il formato AAAA-MM-GG"}),
		},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		if tt.name != "auth required" {
			tt.token = token
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
