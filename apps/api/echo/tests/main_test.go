package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"

	. "github.com/Br01t/feedback-fort/apps/api/echo"
	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
	"github.com/Br01t/feedback-fort/core/user"
	emailsvc "github.com/Br01t/feedback-fort/services/email"
	"github.com/Br01t/feedback-fort/storage/inmem"
	testutil "github.com/Br01t/feedback-fort/tests"
)

var (
	conf     *core.Config
	db       *inmem.DB
	app      *Server
	usrRepo  user.Repository
	respRepo questionnaire.Repository
	usrSvc   user.Service
	mailSvc  *emailsvc.ConsoleService

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	conf = core.NewTestConfig()
	conf.Auth.MaxLoginAttempts = 3
	logger := testutil.NewLogger(conf)
	core.ParseEmailTemplates(logger)

	// set up DB & repos
	db = inmem.Open()
	usrRepo = inmem.NewUserRepository(db)
	respRepo = inmem.NewResponseRepository(db)

	// set up validators
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	questionnaire.InitValidators(validate, translator)

	// set up services
	mailSvc = emailsvc.NewConsoleServiceMock(conf, logger)
	usrSvc = user.NewService(usrRepo, mailSvc, logger, validate, conf)

	// set up server
	app = NewServer(Deps{
		Conf:             conf,
		Logger:           logger,
		Validate:         validate,
		Translator:       translator,
		UserSvc:          usrSvc,
		QuestionnaireSvc: questionnaire.NewService(respRepo, logger, validate, conf),
	})

	code := m.Run()
	_ = app.Close()
	os.Exit(code)
}

type httpErr struct {
	Error string `json:"error"`
}

type authErr struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User, profile *user.Profile) string {
	token, err := GenerateToken(conf, GetUserClaims(conf, usr, profile))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}
