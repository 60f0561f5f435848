// Package logger is a thin leveled front over logrus. Every line carries the
// name of the object it concerns in a fixed-width prefix column.
package logger

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
)

type stringer interface {
	String() string
}

const objWidth = 20

func objToString(obj any) (objStr string) {
	if obj == nil {
		objStr = "NIL"
	} else if stringerObj, ok := obj.(stringer); ok {
		objStr = stringerObj.String()
	} else if objStr, ok = obj.(string); ok {
	} else {
		objStr = reflect.TypeOf(obj).Name()
	}
	if len(objStr) > objWidth {
		objStr = objStr[:objWidth]
	}
	return
}

func Init(lvl logrus.Level) {
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		PadLevelText:    true,
		TimestampFormat: "2006/02/01 15:04:05",
	})
}

func line(obj any, message string) string {
	return fmt.Sprintf("|%20s|%s", objToString(obj), message)
}

func Debug(object any, message string) {
	logrus.Debug(line(object, message))
}

func Debugf(object any, message string, args ...any) {
	logrus.Debug(line(object, fmt.Sprintf(message, args...)))
}

func Info(object any, message string) {
	logrus.Info(line(object, message))
}

func Infof(object any, message string, args ...any) {
	logrus.Info(line(object, fmt.Sprintf(message, args...)))
}

func Warning(object any, message string) {
	logrus.Warning(line(object, message))
}

func Warningf(object any, message string, args ...any) {
	logrus.Warning(line(object, fmt.Sprintf(message, args...)))
}

func Error(object any, message string) {
	logrus.Error(line(object, message))
}

func Errorf(object any, message string, args ...any) {
	logrus.Error(line(object, fmt.Sprintf(message, args...)))
}

func Fatal(object any, message string) {
	logrus.Fatal(line(object, message))
}

func Fatalf(object any, message string, args ...any) {
	logrus.Fatal(line(object, fmt.Sprintf(message, args...)))
}
