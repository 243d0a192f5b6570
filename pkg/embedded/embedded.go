// Package embedded 提供嵌入数据文件的统一访问接口
//
// Go embed 指令只能嵌入当前包目录及其子目录的文件，
// 因此 embed.FS 变量声明在项目根目录（embed.go），由 main 调用 Init 注入。
// 所有路径都以 "data/" 开头，例如 "data/animators.yaml"。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// DataPrefix 嵌入路径的前缀
const DataPrefix = "data/"

var (
	dataFS      fs.FS
	initialized bool
)

var errNotInitialized = errors.New("embedded package not initialized, call Init() first")

// Init 注入根目录嵌入的文件系统（其中包含 data/ 目录）
// 必须在 main() 开始时、任何清单加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// resolve 标准化路径并检查前缀
func resolve(path string) (string, error) {
	if !initialized {
		return "", errNotInitialized
	}

	// embed.FS 使用正斜杠
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")
	if path != strings.TrimSuffix(DataPrefix, "/") && !strings.HasPrefix(path, DataPrefix) {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with '%s')", path, DataPrefix)
	}
	return path, nil
}

// Open 打开嵌入文件
func Open(path string) (fs.File, error) {
	p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return dataFS.Open(p)
}

// ReadFile 读取嵌入文件内容
func ReadFile(path string) ([]byte, error) {
	p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, p)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配嵌入文件
func Glob(pattern string) ([]string, error) {
	p, err := resolve(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, p)
}

// ReadDir 读取目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(dataFS, p)
}

// Sub 返回子目录的文件系统
// 清单、脚本和帧图片都按 Sub("data") 之后的相对路径引用
func Sub(dir string) (fs.FS, error) {
	p, err := resolve(dir)
	if err != nil {
		return nil, err
	}
	return fs.Sub(dataFS, strings.TrimSuffix(p, "/"))
}
