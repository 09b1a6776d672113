package api

import (
	"context"
	"fmt"
)

// GetCourses lists the user's current courses.
func (c *Client) GetCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	extra := Params{{Key: "state", Value: "current"}}
	if err := c.getJSON(ctx, "/courses", extra, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetAssessments lists the assessments of a course.
func (c *Client) GetAssessments(ctx context.Context, course string) ([]Assessment, error) {
	var asmts []Assessment
	path := fmt.Sprintf("/courses/%s/assessments", course)
	if err := c.getJSON(ctx, path, nil, &asmts); err != nil {
		return nil, err
	}
	return asmts, nil
}

// GetAssessmentDetails fetches the full settings of one assessment.
func (c *Client) GetAssessmentDetails(ctx context.Context, course, asmt string) (*DetailedAssessment, error) {
	var detail DetailedAssessment
	path := fmt.Sprintf("/courses/%s/assessments/%s", course, asmt)
	if err := c.getJSON(ctx, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetProblems lists the graded problems of an assessment.
func (c *Client) GetProblems(ctx context.Context, course, asmt string) ([]Problem, error) {
	var problems []Problem
	path := fmt.Sprintf("/courses/%s/assessments/%s/problems", course, asmt)
	if err := c.getJSON(ctx, path, nil, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}
