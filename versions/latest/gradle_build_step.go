// gradle_build_step.go: Gradle runner build step
//
// Differs from 2018.2 in two places: the build file key is spelled
// "gradleRunner", and the docker image platform reads as Linux when unset.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package latest

import "github.com/agilira/themis"

// ImagePlatform selects the platform of the docker image a step runs in
type ImagePlatform string

const (
	ImagePlatformAny     ImagePlatform = "Any"
	ImagePlatformLinux   ImagePlatform = "Linux"
	ImagePlatformWindows ImagePlatform = "Windows"
)

// CoverageEngine is the closed set of coverage tools a step can attach
type CoverageEngine interface {
	themis.VariantValue
	coverageEngine()
}

var (
	ideaIncludeClasses = themis.String("includeClasses", "teamcity.coverage.idea.includePatterns")
	ideaExcludeClasses = themis.String("excludeClasses", "teamcity.coverage.idea.excludePatterns")

	jacocoClassLocations = themis.String("classLocations", "teamcity.coverage.jacoco.classpath")
	jacocoExcludeClasses = themis.String("excludeClasses", "teamcity.coverage.jacoco.patterns")
	jacocoVersion        = themis.String("jacocoVersion", "teamcity.tool.jacoco")
)

var coverageEngineParam = themis.Compound[CoverageEngine]("coverageEngine", "teamcity.coverage.runner",
	themis.Case(&themis.VariantSpec{
		Tag:    "IDEA",
		Fields: []themis.Field{ideaIncludeClasses, ideaExcludeClasses},
	}, func(v themis.Variant) CoverageEngine { return Idea{v} }),
	themis.Case(&themis.VariantSpec{
		Tag:    "JACOCO",
		Fields: []themis.Field{jacocoClassLocations, jacocoExcludeClasses, jacocoVersion},
	}, func(v themis.Variant) CoverageEngine { return Jacoco{v} }),
)

var (
	gsTasks             = themis.String("tasks", "ui.gradleRunner.gradle.tasks.names")
	gsBuildFile         = themis.String("buildFile", "ui.gradleRunner.gradle.build.file")
	gsIncremental       = themis.Bool("incremental", "ui.gradleRunner.gradle.incremental").Values("true", "")
	gsWorkingDir        = themis.String("workingDir", "teamcity.build.workingDir")
	gsGradleHome        = themis.String("gradleHome", "ui.gradleRunner.gradle.home")
	gsGradleParams      = themis.String("gradleParams", "ui.gradleRunner.additional.gradle.cmd.params")
	gsUseGradleWrapper  = themis.Bool("useGradleWrapper", "ui.gradleRunner.gradle.wrapper.useWrapper").Values("true", "")
	gsGradleWrapperPath = themis.String("gradleWrapperPath", "ui.gradleRunner.gradle.wrapper.path")
	gsEnableDebug       = themis.Bool("enableDebug", "ui.gradleRunner.gradle.debug.enabled").Values("true", "")
	gsEnableStacktrace  = themis.Bool("enableStacktrace", "ui.gradleRunner.gradle.stacktrace.enabled").Values("true", "")
	gsJdkHome           = themis.String("jdkHome", "target.jdk.home")
	gsJvmArgs           = themis.String("jvmArgs")
	gsDockerImage       = themis.String("dockerImage", "plugin.docker.imageId")
	gsDockerPlatform    = themis.Enum("dockerImagePlatform", "plugin.docker.imagePlatform",
		[]ImagePlatform{ImagePlatformAny, ImagePlatformLinux, ImagePlatformWindows},
		map[ImagePlatform]string{ImagePlatformAny: "", ImagePlatformLinux: "linux", ImagePlatformWindows: "windows"}).
		Default(ImagePlatformLinux)
	gsDockerPull          = themis.Bool("dockerPull", "plugin.docker.pull.enabled").Values("true", "")
	gsDockerRunParameters = themis.String("dockerRunParameters", "plugin.docker.run.parameters")
)

var gradleBuildStep = &themis.Kind{
	Name: "GradleBuildStep",
	Type: "gradle-runner",
	Fields: []themis.Field{
		gsTasks, gsBuildFile, gsIncremental, gsWorkingDir, gsGradleHome, gsGradleParams,
		gsUseGradleWrapper, gsGradleWrapperPath, gsEnableDebug, gsEnableStacktrace,
		gsJdkHome, gsJvmArgs, coverageEngineParam,
		gsDockerImage, gsDockerPlatform, gsDockerPull, gsDockerRunParameters,
	},
}

// GradleBuildStep runs Gradle tasks
type GradleBuildStep struct {
	*themis.Entity
}

// NewGradleBuildStep builds a step; init may be nil
func NewGradleBuildStep(init func(g *GradleBuildStep)) (*GradleBuildStep, error) {
	e, err := gradleBuildStep.New(nil, func(e *themis.Entity) {
		if init != nil {
			init(&GradleBuildStep{e})
		}
	})
	if err != nil {
		return nil, err
	}
	return &GradleBuildStep{e}, nil
}

func (g *GradleBuildStep) Tasks() (string, bool)             { return gsTasks.Get(g) }
func (g *GradleBuildStep) SetTasks(v string)                 { gsTasks.Set(g, v) }
func (g *GradleBuildStep) BuildFile() (string, bool)         { return gsBuildFile.Get(g) }
func (g *GradleBuildStep) SetBuildFile(v string)             { gsBuildFile.Set(g, v) }
func (g *GradleBuildStep) Incremental() (bool, bool)         { return gsIncremental.Get(g) }
func (g *GradleBuildStep) SetIncremental(v bool)             { gsIncremental.Set(g, v) }
func (g *GradleBuildStep) WorkingDir() (string, bool)        { return gsWorkingDir.Get(g) }
func (g *GradleBuildStep) SetWorkingDir(v string)            { gsWorkingDir.Set(g, v) }
func (g *GradleBuildStep) GradleHome() (string, bool)        { return gsGradleHome.Get(g) }
func (g *GradleBuildStep) SetGradleHome(v string)            { gsGradleHome.Set(g, v) }
func (g *GradleBuildStep) GradleParams() (string, bool)      { return gsGradleParams.Get(g) }
func (g *GradleBuildStep) SetGradleParams(v string)          { gsGradleParams.Set(g, v) }
func (g *GradleBuildStep) UseGradleWrapper() (bool, bool)    { return gsUseGradleWrapper.Get(g) }
func (g *GradleBuildStep) SetUseGradleWrapper(v bool)        { gsUseGradleWrapper.Set(g, v) }
func (g *GradleBuildStep) GradleWrapperPath() (string, bool) { return gsGradleWrapperPath.Get(g) }
func (g *GradleBuildStep) SetGradleWrapperPath(v string)     { gsGradleWrapperPath.Set(g, v) }
func (g *GradleBuildStep) EnableDebug() (bool, bool)         { return gsEnableDebug.Get(g) }
func (g *GradleBuildStep) SetEnableDebug(v bool)             { gsEnableDebug.Set(g, v) }
func (g *GradleBuildStep) EnableStacktrace() (bool, bool)    { return gsEnableStacktrace.Get(g) }
func (g *GradleBuildStep) SetEnableStacktrace(v bool)        { gsEnableStacktrace.Set(g, v) }
func (g *GradleBuildStep) JdkHome() (string, bool)           { return gsJdkHome.Get(g) }
func (g *GradleBuildStep) SetJdkHome(v string)               { gsJdkHome.Set(g, v) }
func (g *GradleBuildStep) JvmArgs() (string, bool)           { return gsJvmArgs.Get(g) }
func (g *GradleBuildStep) SetJvmArgs(v string)               { gsJvmArgs.Set(g, v) }
func (g *GradleBuildStep) DockerImage() (string, bool)       { return gsDockerImage.Get(g) }
func (g *GradleBuildStep) SetDockerImage(v string)           { gsDockerImage.Set(g, v) }
func (g *GradleBuildStep) DockerPull() (bool, bool)          { return gsDockerPull.Get(g) }
func (g *GradleBuildStep) SetDockerPull(v bool)              { gsDockerPull.Set(g, v) }
func (g *GradleBuildStep) DockerRunParameters() (string, bool) {
	return gsDockerRunParameters.Get(g)
}
func (g *GradleBuildStep) SetDockerRunParameters(v string) { gsDockerRunParameters.Set(g, v) }

// DockerImagePlatform fails with a *themis.ConversionError when the stored
// value is not one of the mapped platforms
func (g *GradleBuildStep) DockerImagePlatform() (ImagePlatform, bool, error) {
	return gsDockerPlatform.Get(g)
}
func (g *GradleBuildStep) SetDockerImagePlatform(v ImagePlatform) { gsDockerPlatform.Set(g, v) }

func (g *GradleBuildStep) CoverageEngine() (CoverageEngine, bool) { return coverageEngineParam.Get(g) }
func (g *GradleBuildStep) SetCoverageEngine(v CoverageEngine)     { coverageEngineParam.Set(g, v) }

// Idea collects coverage with the IntelliJ IDEA engine
type Idea struct{ themis.Variant }

func (Idea) coverageEngine() {}

func NewIdea(init func(v Idea)) Idea {
	v := coverageEngineParam.MustNew("IDEA").(Idea)
	if init != nil {
		init(v)
	}
	return v
}

func (v Idea) IncludeClasses() (string, bool) { return ideaIncludeClasses.Get(v) }
func (v Idea) SetIncludeClasses(s string)     { ideaIncludeClasses.Set(v, s) }
func (v Idea) ExcludeClasses() (string, bool) { return ideaExcludeClasses.Get(v) }
func (v Idea) SetExcludeClasses(s string)     { ideaExcludeClasses.Set(v, s) }

// Jacoco collects coverage with JaCoCo
type Jacoco struct{ themis.Variant }

func (Jacoco) coverageEngine() {}

func NewJacoco(init func(v Jacoco)) Jacoco {
	v := coverageEngineParam.MustNew("JACOCO").(Jacoco)
	if init != nil {
		init(v)
	}
	return v
}

func (v Jacoco) ClassLocations() (string, bool) { return jacocoClassLocations.Get(v) }
func (v Jacoco) SetClassLocations(s string)     { jacocoClassLocations.Set(v, s) }
func (v Jacoco) ExcludeClasses() (string, bool) { return jacocoExcludeClasses.Get(v) }
func (v Jacoco) SetExcludeClasses(s string)     { jacocoExcludeClasses.Set(v, s) }
func (v Jacoco) JacocoVersion() (string, bool)  { return jacocoVersion.Get(v) }
func (v Jacoco) SetJacocoVersion(s string)      { jacocoVersion.Set(v, s) }
