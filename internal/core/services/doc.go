// Package services implements the driving port interfaces.
// Services contain the answer pipeline: retrieval arbitration, local
// composition, job-posting matching, and remote answer orchestration.
//
// Services are pure Go with no CGO or external dependencies.
package services
