package ensure

import (
	"strings"

	"github.com/ansarhun/restic-volume-populator/internal/utils/kubernetes"
	"github.com/operator-framework/operator-lib/proxy"
	corev1 "k8s.io/api/core/v1"
)

// SetProxyEnvs copies the controller's HTTP(S)_PROXY and NO_PROXY variables into every container.
// Hosts in noProxy are prepended to NO_PROXY.
func SetProxyEnvs(containers []corev1.Container, noProxy ...string) {
	vars := proxy.ReadProxyVarsFromEnv()
	for i := range containers {
		for _, v := range vars {
			kubernetes.FindEnvByNameOrCreate(&containers[i], v.Name).Value = proxyValue(v, noProxy)
		}
	}
}

func proxyValue(v corev1.EnvVar, noProxy []string) string {
	if !strings.EqualFold(v.Name, "no_proxy") || len(noProxy) == 0 {
		return v.Value
	}
	return strings.Join(append(noProxy[:len(noProxy):len(noProxy)], v.Value), ",")
}
