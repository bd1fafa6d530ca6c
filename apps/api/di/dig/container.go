package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/Br01t/feedback-fort/apps/api/echo"
	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
	"github.com/Br01t/feedback-fort/core/user"
	emailsvc "github.com/Br01t/feedback-fort/services/email"
	logsvc "github.com/Br01t/feedback-fort/services/logger"
	"github.com/Br01t/feedback-fort/storage"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type ServerParam struct {
	dig.In
	Conf             *core.Config
	Logger           core.Logger
	Validate         *validator.Validate
	Translator       ut.Translator
	UserSvc          user.Service
	QuestionnaireSvc questionnaire.Service
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStore(conf *core.Config, loggerParam DBLoggerParam) *storage.Store {
	store, err := storage.Open(context.Background(), conf, loggerParam.Logger)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Database.Engine, err), err)
	}
	return store
}

func newUserRepository(store *storage.Store) user.Repository {
	return store.Users
}

func newResponseRepository(store *storage.Store) questionnaire.Repository {
	return store.Responses
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// newValidator returns a validator with every application validator and translation registered.
func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	questionnaire.InitValidators(validate, translator)
	return validate
}

func newServer(p ServerParam) *echoapi.Server {
	return echoapi.NewServer(echoapi.Deps{
		Conf:             p.Conf,
		Logger:           p.Logger,
		Validate:         p.Validate,
		Translator:       p.Translator,
		UserSvc:          p.UserSvc,
		QuestionnaireSvc: p.QuestionnaireSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newUserRepository))
	must(c.Provide(newResponseRepository))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(questionnaire.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
