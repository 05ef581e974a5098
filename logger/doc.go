// Package logger provides structured logging for iocboot built on zerolog.
//
// A process-wide logger is configured once with Init and reached through the
// package-level helpers; components derive tagged children with WithComponent:
//
//	logger.Init(logger.Config{Level: "debug", Format: "json"})
//	log := logger.WithComponent("ioc")
//	log.Info("container built", logger.Fields("bindings", 12))
package logger
