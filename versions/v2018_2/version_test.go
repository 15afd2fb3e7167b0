// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package v2018_2

import (
	goerrors "errors"
	"reflect"
	"testing"

	"github.com/agilira/themis"
)

func TestGradleBuildStep_BoolSentinels(t *testing.T) {
	g, err := NewGradleBuildStep(func(g *GradleBuildStep) {
		g.SetUseGradleWrapper(true)
		g.SetEnableDebug(false)
	})
	if err != nil {
		t.Fatalf("NewGradleBuildStep failed: %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantRaw string
		get     func() (bool, bool)
		wantVal bool
		wantOK  bool
	}{
		{"true sentinel", "ui.gradleRunner.gradle.wrapper.useWrapper", "true", g.UseGradleWrapper, true, true},
		{"false sentinel", "ui.gradleRunner.gradle.debug.enabled", "", g.EnableDebug, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := g.Params().Get(tt.key)
			if !ok || raw != tt.wantRaw {
				t.Errorf("raw %s = (%q, %v), want (%q, true)", tt.key, raw, ok, tt.wantRaw)
			}
			v, ok := tt.get()
			if v != tt.wantVal || ok != tt.wantOK {
				t.Errorf("read = (%v, %v), want (%v, %v)", v, ok, tt.wantVal, tt.wantOK)
			}
		})
	}

	if _, ok := g.Incremental(); ok {
		t.Error("unset boolean should read as absent")
	}
}

func TestGradleBuildStep_HistoricalBuildFileKey(t *testing.T) {
	g, err := NewGradleBuildStep(func(g *GradleBuildStep) {
		g.SetBuildFile("build.gradle.kts")
	})
	if err != nil {
		t.Fatalf("NewGradleBuildStep failed: %v", err)
	}
	if !g.HasParam("ui.gradleRUnner.gradle.build.file") {
		t.Error("2018.2 must write the build file under its published key")
	}
	if g.HasParam("ui.gradleRunner.gradle.build.file") {
		t.Error("corrected key belongs to a later snapshot")
	}
}

func TestGradleBuildStep_ImagePlatform(t *testing.T) {
	tests := []struct {
		platform ImagePlatform
		wire     string
	}{
		{ImagePlatformAny, ""},
		{ImagePlatformLinux, "linux"},
		{ImagePlatformWindows, "windows"},
	}
	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			g, err := NewGradleBuildStep(func(g *GradleBuildStep) {
				g.SetDockerImagePlatform(tt.platform)
			})
			if err != nil {
				t.Fatalf("NewGradleBuildStep failed: %v", err)
			}
			if raw, _ := g.Params().Get("plugin.docker.imagePlatform"); raw != tt.wire {
				t.Errorf("wire = %q, want %q", raw, tt.wire)
			}
			got, ok, err := g.DockerImagePlatform()
			if err != nil || !ok || got != tt.platform {
				t.Errorf("read = (%v, %v, %v), want %v", got, ok, err, tt.platform)
			}
		})
	}
}

func TestGradleBuildStep_ImagePlatformConversionError(t *testing.T) {
	g, err := NewGradleBuildStep(func(g *GradleBuildStep) {
		g.Param("plugin.docker.imagePlatform", "solaris")
	})
	if err != nil {
		t.Fatalf("NewGradleBuildStep failed: %v", err)
	}

	_, _, err = g.DockerImagePlatform()
	var ce *themis.ConversionError
	if !goerrors.As(err, &ce) {
		t.Fatalf("expected *ConversionError, got %v", err)
	}
	if ce.Raw != "solaris" || ce.Key != "plugin.docker.imagePlatform" {
		t.Errorf("conversion error = %+v", ce)
	}
}

func TestGradleBuildStep_CoverageRoundTrip(t *testing.T) {
	g, err := NewGradleBuildStep(func(g *GradleBuildStep) {
		g.SetCoverageEngine(NewJacoco(func(v Jacoco) {
			v.SetClassLocations("build/classes")
			v.SetJacocoVersion("%teamcity.tool.jacoco.DEFAULT%")
		}))
	})
	if err != nil {
		t.Fatalf("NewGradleBuildStep failed: %v", err)
	}

	engine, ok := g.CoverageEngine()
	if !ok {
		t.Fatal("coverage engine should resolve")
	}
	j, ok := engine.(Jacoco)
	if !ok {
		t.Fatalf("engine = %T, want Jacoco", engine)
	}
	if loc, _ := j.ClassLocations(); loc != "build/classes" {
		t.Errorf("classLocations = %q", loc)
	}
	if raw, _ := g.Params().Get("teamcity.coverage.runner"); raw != "JACOCO" {
		t.Errorf("discriminator = %q, want JACOCO", raw)
	}
}

func TestGradleBuildStep_UnknownCoverageTag(t *testing.T) {
	g, err := NewGradleBuildStep(func(g *GradleBuildStep) {
		g.Param("teamcity.coverage.runner", "EMMA")
	})
	if err != nil {
		t.Fatalf("NewGradleBuildStep failed: %v", err)
	}
	if engine, ok := g.CoverageEngine(); ok {
		t.Errorf("unknown tag should read as absent, got %T", engine)
	}
}

func TestApproval_Validation(t *testing.T) {
	tests := []struct {
		name string
		init func(a *Approval)
		want []string
	}{
		{"missing rules", func(a *Approval) { a.SetTimeout(30) }, []string{"approvalRules"}},
		{"rules set", func(a *Approval) { a.SetApprovalRules("user:admin") }, []string{}},
		{"placeholder rules", func(a *Approval) { a.SetApprovalRules("%approvers%") }, []string{}},
		{"raw empty rules", func(a *Approval) { a.Param("rules", "") }, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewApproval(tt.init)
			if err != nil {
				t.Fatalf("NewApproval failed: %v", err)
			}
			if got := a.Validate().Paths(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("paths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApproval_Timeout(t *testing.T) {
	a, err := NewApproval(func(a *Approval) {
		a.SetApprovalRules("user:admin")
		a.SetTimeout(45)
		a.SetManualRunsApproved(true)
	})
	if err != nil {
		t.Fatalf("NewApproval failed: %v", err)
	}
	if raw, _ := a.Params().Get("timeout"); raw != "45" {
		t.Errorf("timeout wire = %q, want 45", raw)
	}
	if n, ok, err := a.Timeout(); err != nil || !ok || n != 45 {
		t.Errorf("Timeout() = (%d, %v, %v)", n, ok, err)
	}

	bad, err := NewApproval(func(a *Approval) { a.Param("timeout", "soon") })
	if err != nil {
		t.Fatalf("NewApproval failed: %v", err)
	}
	if _, _, err := bad.Timeout(); themis.ErrorCode(err) != themis.ErrCodeConversion {
		t.Errorf("expected conversion error, got %v", err)
	}
}
