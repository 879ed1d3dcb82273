/*
 * @module service/integrity/script_rules
 * @description 脚本规则执行器：用 yaegi 解释调用方提供的 Go 脚本作为业务规则谓词
 * @architecture 解释器模式 - 脚本按哈希编译缓存，重复使用不再编译
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 脚本哈希 -> 缓存命中或编译 -> 提取 Validate 函数 -> 谓词调用
 * @rules 脚本必须定义 func Validate(record map[string]interface{}) bool；编译失败快速返回
 * @dependencies github.com/traefik/yaegi
 * @refs integrity_checker.go
 */

package integrity

import (
	"crypto/md5"
	"fmt"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ScriptRuleExecutor 脚本规则执行器
type ScriptRuleExecutor struct {
	mu    sync.Mutex
	cache map[string]func(map[string]interface{}) bool
}

// NewScriptRuleExecutor 创建脚本规则执行器
func NewScriptRuleExecutor() *ScriptRuleExecutor {
	return &ScriptRuleExecutor{
		cache: make(map[string]func(map[string]interface{}) bool),
	}
}

// Compile 编译脚本为谓词函数，同一脚本只编译一次
func (se *ScriptRuleExecutor) Compile(script string) (func(map[string]interface{}) bool, error) {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(script)))

	se.mu.Lock()
	if compiled, exists := se.cache[hash]; exists {
		se.mu.Unlock()
		return compiled, nil
	}
	se.mu.Unlock()

	compiled, err := se.compile(script)
	if err != nil {
		return nil, err
	}

	se.mu.Lock()
	se.cache[hash] = compiled
	se.mu.Unlock()

	return compiled, nil
}

// compile 在独立解释器中求值脚本并提取 Validate 函数
func (se *ScriptRuleExecutor) compile(script string) (func(map[string]interface{}) bool, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("加载标准库失败: %w", err)
	}

	wrapped := fmt.Sprintf("package rules\n\n%s\n", script)
	if _, err := i.Eval(wrapped); err != nil {
		return nil, fmt.Errorf("脚本求值失败: %w", err)
	}

	value, err := i.Eval("rules.Validate")
	if err != nil {
		return nil, fmt.Errorf("脚本未定义 Validate 函数: %w", err)
	}

	validate, ok := value.Interface().(func(map[string]interface{}) bool)
	if !ok {
		return nil, fmt.Errorf("Validate 函数签名不正确，要求 func(record map[string]interface{}) bool")
	}

	return validate, nil
}
