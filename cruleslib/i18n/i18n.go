/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var languageMap = map[string]language.Tag{"en": language.English, "zh": language.Chinese}

// Console strings with a Chinese translation. The keys are the format
// strings passed to the printer, so English needs no catalog entry.
var zhMessages = map[string]string{
	"[ComplyC] Preprocessor mode: %s\n":                      "[ComplyC] 预处理模式: %s\n",
	"GCC (-E -P)":                                            "GCC (-E -P)",
	"builtin regex stripper":                                 "内置正则剥离器",
	"\nFile: %s\n":                                           "\n文件: %s\n",
	"  No violations found ✅\n":                              "  未发现违规 ✅\n",
	"  [%s] %s: %s\n":                                        "  [%s] %s: %s\n",
	"\n==================== Summary ====================\n": "\n==================== 汇总 ====================\n",
	"Total files analyzed   : %d\n":                          "分析文件总数 : %d\n",
	"Total violations found : %d\n":                          "违规总数     : %d\n",
	"Overall status         : ✅ Clean (no violations)\n":     "总体状态     : ✅ 通过 (无违规)\n",
	"Overall status         : ⚠️ Issues detected\n":          "总体状态     : ⚠️ 发现问题\n",
	"Violations by severity :\n":                             "按严重级别统计 :\n",
	"  - %-11s : %d\n":                                       "  - %-11s : %d\n",
	"=================================================\n\n":   "=================================================\n\n",
	"[ComplyC] JSON report written to %s\n":                  "[ComplyC] JSON 报告已写入 %s\n",
	"[ComplyC] HTML report written to %s\n":                  "[ComplyC] HTML 报告已写入 %s\n",
	"[ComplyC] Results written to %s\n":                      "[ComplyC] 结果已写入 %s\n",
	"[ComplyC] Cleaned %s folder\n":                          "[ComplyC] 已清空 %s 目录\n",
	"[ComplyC] Could not delete %s: %v\n":                    "[ComplyC] 无法删除 %s: %v\n",
	"[ComplyC] Failed to analyze %s: %v\n":                   "[ComplyC] 分析 %s 失败: %v\n",
	"[ComplyC] Watching %d files for changes\n":              "[ComplyC] 正在监视 %d 个文件的变更\n",
	"[ComplyC] %s changed, re-running analysis\n":            "[ComplyC] %s 已变更，重新分析\n",
	"Lines of code          : %d (%d files)\n":               "代码行数     : %d (%d 个文件)\n",
	"Start analyzing %s (%v/%v)":                             "开始分析 %s (%v/%v)",
	"Analysis of %s completed with %v violations (%s, %v/%v) [%s]": "%s 分析完成，发现 %v 个违规 (%s, %v/%v) [%s]",
}

func init() {
	for key, msg := range zhMessages {
		if err := message.SetString(language.Chinese, key, msg); err != nil {
			panic(err)
		}
	}
}

// GetPrinter returns the console printer of lang. Unknown languages fall
// back to English.
func GetPrinter(lang string) *message.Printer {
	langTag := language.English
	if tag, exist := languageMap[lang]; exist {
		langTag = tag
	}
	return message.NewPrinter(langTag)
}

func IsSupported(lang string) bool {
	_, exist := languageMap[lang]
	return exist
}
