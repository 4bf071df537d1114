// Package matcher 是标题解析引擎：判断商店页面上的一个商品标题，
// 相对用户的 Steam 已拥有列表与愿望单，属于 已拥有 / 愿望单 / 拥有本体 / 未拥有 中的哪一种。
//
// 流水线（单向、无状态）：
//
//	Normalize -> StripEdition -> IsFuzzyMatch(Similarity) -> ExtractBaseName
//
// Resolve 按固定优先级依次尝试各策略，第一个成功的策略给出结论：
//
//  1. app id 精确匹配（已拥有优先，其次愿望单）
//  2. 已拥有列表：规范化相等 / 去版本后相等 / 模糊匹配
//  3. 愿望单：同上
//  4. 本体推断：已拥有标题是候选标题的词前缀且剩余部分不是版本后缀；或 DLC 标题的本体名命中
//  5. 未拥有
//
// 所有函数都是纯函数；*Matcher 与 *Index 构造后只读，可被多个 goroutine 并发使用。
// 该策略是启发式分类器：宁可漏判，也尽量不把续作/变体误判为已拥有。
package matcher
