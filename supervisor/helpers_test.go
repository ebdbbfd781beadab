package supervisor

import "go.uber.org/zap"

var testLog *zap.Logger

func init() {
	l, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	testLog = l
}
