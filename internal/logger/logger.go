package logger

import "go.uber.org/zap"

// Init installs the global zap logger. Production gets the JSON encoder,
// everything else the human-readable development config.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	if environment == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(l)

	return nil
}
