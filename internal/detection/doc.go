// Package detection talks to the remote object-detection service and models
// what it returns.
//
// The service is a black-box HTTP endpoint (a Coral/DeepStack style REST
// server) that accepts one image and answers with a list of predictions.
// This package owns three concerns:
//
//   - Detection: one prediction (label, confidence, normalized box)
//   - Qualification: whether a detection counts for a target label at a
//     given percentage threshold
//   - Geometry: conversion of a normalized box to pixel coordinates
//
// # Coordinate System
//
// Normalized boxes use the service's convention (y_min, x_min, y_max, x_max),
// each value a fraction of the image height or width in [0.0, 1.0]. Pixel
// boxes use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// No clamping is applied. Out-of-range normalized values produce pixel
// coordinates outside the canvas.
//
// # Confidence
//
// The service reports confidence as a fraction (0.0 to 1.0). Thresholds are
// expressed in percent (0 to 100), so confidences are converted with
// ConfidencePercent, which rounds to one decimal place before comparison.
//
// # Errors
//
// Detect never retries. Failures are reported with two sentinel kinds:
//   - ErrTransport: connection failure, timeout, non-200 status or a body
//     that is not the expected JSON
//   - ErrServiceRejected: the service answered with "success": false
//
// Callers treat both as "no detections" and use errors.Is to tell them apart
// in logs.
package detection
