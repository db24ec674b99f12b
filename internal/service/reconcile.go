package service

// 分类协调：按集合语义比较新旧成员，算出最小增删差量。
// 与顺序无关；重复 id 视为一个。

// DiffIDs toRemove = current − requested；toAdd = requested − current
func DiffIDs(current, requested []string) (toAdd, toRemove []string) {
	cur := toSet(current)
	req := toSet(requested)
	for id := range req {
		if _, ok := cur[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range cur {
		if _, ok := req[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

func toSet(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// dedupeIDs 保序去重
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// subtractIDs a − b，保持 a 的顺序
func subtractIDs(a, b []string) []string {
	bs := toSet(b)
	out := make([]string, 0, len(a))
	for _, id := range a {
		if _, ok := bs[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
