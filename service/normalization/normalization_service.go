/*
 * @module service/normalization/normalization_service
 * @description 数据规范化服务，负责邮箱、用户名、电话、名称、标签、金额等字段的标准化
 * @architecture 管道模式 - 每个字段族一个规范化函数，批量接口统一排除无效记录
 * @documentReference ai_docs/quality_engine_design.md
 * @stateFlow 原始值输入 -> 清洗转换 -> 校验 -> 输出规范值或排除
 * @rules 批量规范化只排除无效记录，绝不替换为空值或默认值；单值接口返回 ok 标志
 * @dependencies golang.org/x/text, github.com/spf13/cast
 * @refs date_normalizer.go, location_normalizer.go
 */

package normalization

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"dataquality-service/service/meta"
	"dataquality-service/service/models"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizationService 规范化服务
type NormalizationService struct {
	defaultCurrency string
	maxTags         int
	allowedTags     map[string]bool
	titleCaser      cases.Caser
}

// NewNormalizationService 创建规范化服务，使用 meta 包的默认配置
func NewNormalizationService() *NormalizationService {
	return &NormalizationService{
		defaultCurrency: meta.DefaultCurrency,
		maxTags:         meta.DefaultMaxTags,
		allowedTags:     meta.DefaultAllowedTags,
		titleCaser:      cases.Title(language.English),
	}
}

// SetDefaultCurrency 设置金额解析的默认货币
func (ns *NormalizationService) SetDefaultCurrency(code string) error {
	if !meta.KnownCurrencyCodes[code] {
		return fmt.Errorf("未知的货币代码: %s", code)
	}
	ns.defaultCurrency = code
	return nil
}

// SetAllowedTags 设置标签白名单，nil 表示不过滤
func (ns *NormalizationService) SetAllowedTags(tags []string) {
	if tags == nil {
		ns.allowedTags = nil
		return
	}
	allowed := make(map[string]bool, len(tags))
	for _, tag := range tags {
		allowed[strings.ToLower(strings.TrimSpace(tag))] = true
	}
	ns.allowedTags = allowed
}

// NormalizeEmail 规范化单个邮箱地址
// 结构要求：恰好一个 @，本地部分非空，域名至少包含一个点且各段非空
func (ns *NormalizationService) NormalizeEmail(email string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(email))
	if cleaned == "" {
		return "", false
	}

	parts := strings.Split(cleaned, "@")
	if len(parts) != 2 || parts[0] == "" {
		return "", false
	}

	domain := parts[1]
	if !strings.Contains(domain, ".") {
		return "", false
	}
	for _, segment := range strings.Split(domain, ".") {
		if segment == "" {
			return "", false
		}
	}

	return cleaned, true
}

// NormalizeEmails 批量规范化邮箱，无效条目被排除
func (ns *NormalizationService) NormalizeEmails(emails []string) []string {
	result := make([]string, 0, len(emails))
	for _, email := range emails {
		if normalized, ok := ns.NormalizeEmail(email); ok {
			result = append(result, normalized)
		}
	}
	return result
}

// NormalizeUsername 规范化用户名：小写并把 . - 空格 统一为下划线
func (ns *NormalizationService) NormalizeUsername(value interface{}) (string, bool) {
	username, isString := value.(string)
	if !isString {
		return "", false
	}

	cleaned := strings.ToLower(strings.TrimSpace(username))
	if cleaned == "" {
		return "", false
	}

	var builder strings.Builder
	lastWasSeparator := false
	for _, r := range cleaned {
		if r == '.' || r == '-' || r == ' ' || r == '_' {
			if !lastWasSeparator {
				builder.WriteRune('_')
			}
			lastWasSeparator = true
			continue
		}
		builder.WriteRune(r)
		lastWasSeparator = false
	}

	result := strings.Trim(builder.String(), "_")
	if result == "" {
		return "", false
	}
	return result, true
}

// NormalizeUsernames 批量规范化用户名
func (ns *NormalizationService) NormalizeUsernames(values []interface{}) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if normalized, ok := ns.NormalizeUsername(value); ok {
			result = append(result, normalized)
		}
	}
	return result
}

// NormalizePhone 规范化电话号码为国际横杠格式，如 +82-10-1234-5678
func (ns *NormalizationService) NormalizePhone(phone string) (string, bool) {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return "", false
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	digitStr := digits.String()

	// 韩国本地手机号：010 开头 11 位，去掉前导 0 后按 +82 分段
	if len(digitStr) == 11 && strings.HasPrefix(digitStr, "010") {
		return ns.formatPhone("82", digitStr[1:]), true
	}

	// 带国家码的号码
	for code, groups := range meta.PhoneCountryGroups {
		if !strings.HasPrefix(digitStr, code) {
			continue
		}
		national := digitStr[len(code):]
		if len(national) == sumGroups(groups) {
			return ns.formatPhone(code, national), true
		}
	}

	// 已经满足目标格式的号码原样透传
	if isInternationalDashed(trimmed) {
		return trimmed, true
	}

	return "", false
}

// NormalizePhones 批量规范化电话号码
func (ns *NormalizationService) NormalizePhones(phones []string) []string {
	result := make([]string, 0, len(phones))
	for _, phone := range phones {
		if normalized, ok := ns.NormalizePhone(phone); ok {
			result = append(result, normalized)
		}
	}
	return result
}

// formatPhone 按国家码分段模式拼接号码
func (ns *NormalizationService) formatPhone(code, national string) string {
	groups := meta.PhoneCountryGroups[code]
	segments := make([]string, 0, len(groups)+1)
	segments = append(segments, "+"+code)

	offset := 0
	for _, width := range groups {
		segments = append(segments, national[offset:offset+width])
		offset += width
	}

	return strings.Join(segments, "-")
}

// NormalizeName 规范化显示名称/项目名称
// 折叠空白、去除装饰性标点；多词 ASCII 名称做词首大写，Unicode 名称仅做清理
func (ns *NormalizationService) NormalizeName(name string) (string, bool) {
	cleaned := collapseWhitespace(strings.TrimSpace(name))
	cleaned = strings.Trim(cleaned, "!~*#")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", false
	}

	if !isASCII(cleaned) {
		return cleaned, true
	}

	words := strings.Split(cleaned, " ")
	if len(words) < 2 {
		return cleaned, true
	}

	for i, word := range words {
		// 混合大小写视为专有名词，保留原样
		if word == strings.ToLower(word) || word == strings.ToUpper(word) {
			words[i] = ns.titleCaser.String(strings.ToLower(word))
		}
	}

	return strings.Join(words, " "), true
}

// NormalizeNames 批量规范化名称
func (ns *NormalizationService) NormalizeNames(names []string) []string {
	result := make([]string, 0, len(names))
	for _, name := range names {
		if normalized, ok := ns.NormalizeName(name); ok {
			result = append(result, normalized)
		}
	}
	return result
}

// NormalizeTags 规范化标签列表：小写、去重、按白名单过滤并截断到上限
func (ns *NormalizationService) NormalizeTags(tags []interface{}) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(tags))

	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(cast.ToString(raw)))
		if tag == "" || seen[tag] {
			continue
		}
		if ns.allowedTags != nil && !ns.allowedTags[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
		if len(result) >= ns.maxTags {
			break
		}
	}

	return result
}

// NormalizeBudget 解析货币字符串为金额与 ISO 货币代码
// 支持前置符号（$ ₩ € £ ¥）与后置代码（1,000,000 KRW），货币不明时使用默认货币
func (ns *NormalizationService) NormalizeBudget(value string) (models.MoneyValue, bool) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return models.MoneyValue{}, false
	}

	currency := ""
	for symbol, code := range meta.CurrencySymbols {
		if strings.HasPrefix(cleaned, symbol) {
			currency = code
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, symbol))
			break
		}
	}

	if currency == "" {
		fields := strings.Fields(cleaned)
		if len(fields) == 2 {
			code := strings.ToUpper(fields[1])
			if meta.KnownCurrencyCodes[code] {
				currency = code
				cleaned = fields[0]
			}
		}
	}

	cleaned = strings.ReplaceAll(cleaned, ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount < 0 {
		return models.MoneyValue{}, false
	}

	if currency == "" {
		currency = ns.defaultCurrency
	}

	return models.MoneyValue{Amount: amount, Currency: currency}, true
}

// NormalizeUserRecord 规范化用户记录的已知字段，返回清洗后的副本
// 无效字段从副本中移除，原始记录不被修改
func (ns *NormalizationService) NormalizeUserRecord(record map[string]interface{}) map[string]interface{} {
	result := copyRecord(record)

	if email, exists := record["email"]; exists {
		if normalized, ok := ns.NormalizeEmail(cast.ToString(email)); ok {
			result["email"] = normalized
		} else {
			delete(result, "email")
		}
	}

	if username, exists := record["username"]; exists {
		if normalized, ok := ns.NormalizeUsername(username); ok {
			result["username"] = normalized
		} else {
			delete(result, "username")
		}
	}

	if phone, exists := record["phone"]; exists {
		if normalized, ok := ns.NormalizePhone(cast.ToString(phone)); ok {
			result["phone"] = normalized
		} else {
			delete(result, "phone")
		}
	}

	if name, exists := record["name"]; exists {
		if normalized, ok := ns.NormalizeName(cast.ToString(name)); ok {
			result["name"] = normalized
		} else {
			delete(result, "name")
		}
	}

	if location, exists := record["location"]; exists {
		if normalized, ok := ns.NormalizeLocation(cast.ToString(location)); ok {
			result["location"] = normalized
		} else {
			delete(result, "location")
		}
	}

	ns.normalizeDateFields(record, result, "createdAt", "updatedAt", "lastLoginAt")
	return result
}

// NormalizeProjectRecord 规范化项目记录的已知字段，返回清洗后的副本
func (ns *NormalizationService) NormalizeProjectRecord(record map[string]interface{}) map[string]interface{} {
	result := copyRecord(record)

	if name, exists := record["name"]; exists {
		if normalized, ok := ns.NormalizeName(cast.ToString(name)); ok {
			result["name"] = normalized
		} else {
			delete(result, "name")
		}
	}

	if tags, exists := record["tags"]; exists {
		result["tags"] = ns.NormalizeTags(cast.ToSlice(tags))
	}

	if budget, exists := record["budget"]; exists {
		if value, isString := budget.(string); isString {
			if money, ok := ns.NormalizeBudget(value); ok {
				result["budget"] = money
			} else {
				delete(result, "budget")
			}
		}
	}

	ns.normalizeDateFields(record, result, "createdAt", "updatedAt", "startDate", "endDate", "completedAt")
	return result
}

// NormalizeRecord 按实体类型分发规范化，未知类型仅透传
func (ns *NormalizationService) NormalizeRecord(entityType string, record map[string]interface{}) map[string]interface{} {
	switch entityType {
	case "users":
		return ns.NormalizeUserRecord(record)
	case "projects":
		return ns.NormalizeProjectRecord(record)
	default:
		return copyRecord(record)
	}
}

// normalizeDateFields 规范化记录中的日期字段，无效日期从副本中移除
func (ns *NormalizationService) normalizeDateFields(record, result map[string]interface{}, fields ...string) {
	for _, field := range fields {
		value, exists := record[field]
		if !exists || value == nil {
			continue
		}
		if normalized, ok := ns.NormalizeDate(value); ok {
			result[field] = normalized
		} else {
			delete(result, field)
		}
	}
}

// collapseWhitespace 把连续空白折叠为单个空格
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isASCII 判断字符串是否全为 ASCII
func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// isInternationalDashed 判断是否已是国际横杠格式
func isInternationalDashed(phone string) bool {
	if !strings.HasPrefix(phone, "+") {
		return false
	}
	segments := strings.Split(phone[1:], "-")
	if len(segments) < 3 {
		return false
	}
	for _, segment := range segments {
		if segment == "" {
			return false
		}
		for _, r := range segment {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// sumGroups 计算分段模式的总位数
func sumGroups(groups []int) int {
	total := 0
	for _, width := range groups {
		total += width
	}
	return total
}

// copyRecord 浅拷贝记录
func copyRecord(record map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(record))
	for key, value := range record {
		result[key] = value
	}
	return result
}
